package chip

import (
	"fmt"
	"math"
)

// Audible range accepted by NoteForFrequency. Chip timers can express
// frequencies far outside it, those do not map to notes.
const (
	minAudibleHz = 20.0
	maxAudibleHz = 20000.0
)

// a4Frequency is the equal temperament reference pitch.
const a4Frequency = 440.0

var noteNames = [12]string{
	"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-",
}

// Note is an equal-tempered note as semitone index and octave, following
// the scientific convention where A4 is 440 Hz and octaves start at C.
type Note struct {
	// Semitone is the index within the octave, 0 = C.
	Semitone int

	// Octave is the scientific octave number.
	Octave int
}

// String renders the note in tracker notation, for example "A-4" or "C#3".
func (n Note) String() string {
	return fmt.Sprintf("%s%d", noteNames[n.Semitone%12], n.Octave)
}

// MIDI returns the MIDI note number, 69 for A4.
func (n Note) MIDI() int {
	return (n.Octave+1)*12 + n.Semitone
}

// Frequency returns the note's equal temperament frequency in Hz.
func (n Note) Frequency() float64 {
	return a4Frequency * math.Pow(2, float64(n.MIDI()-69)/12)
}

// NoteForFrequency maps a frequency to the nearest equal-tempered note.
// It returns false for frequencies outside the audible 20 Hz to 20 kHz
// range, which callers treat as "no note" rather than an error.
func NoteForFrequency(hz float64) (Note, bool) {
	if hz < minAudibleHz || hz > maxAudibleHz {
		return Note{}, false
	}

	semitones := int(math.Round(12 * math.Log2(hz/a4Frequency)))
	midi := 69 + semitones
	return Note{
		Semitone: ((midi % 12) + 12) % 12,
		Octave:   midi/12 - 1,
	}, true
}
