// Package reduce compacts the per-tick frame stream into a sparse note
// event list. Consecutive frames mostly repeat each other, the reducer
// keeps only the transitions a pattern builder needs.
package reduce

import (
	"fmt"

	"github.com/retroenv/chipripper/internal/chip"
)

// EventKind distinguishes note starts from releases.
type EventKind int

// Event kinds.
const (
	NoteOn EventKind = iota
	NoteOff
)

// NoteEvent is one transition on one channel at one output row.
type NoteEvent struct {
	Row     int
	Channel int
	Kind    EventKind

	// Note is set for NoteOn events.
	Note chip.Note

	// Volume carries the chip volume at the transition, -1 when the
	// chip exposes none.
	Volume int
}

// String renders the event in tracker notation.
func (e NoteEvent) String() string {
	if e.Kind == NoteOff {
		return fmt.Sprintf("row %d ch %d off", e.Row, e.Channel)
	}
	return fmt.Sprintf("row %d ch %d %s", e.Row, e.Channel, e.Note)
}

// Reduce downsamples frames to at most targetRows rows and diffs each
// channel against its last emitted note. A NoteOn appears only when the
// gated note changes, a single NoteOff when a gated channel drops its
// gate. Inputs already at or below targetRows pass through with a stride
// of one, so reducing twice yields the same events.
func Reduce(frames []chip.Frame, targetRows int) []NoteEvent {
	if len(frames) == 0 || targetRows <= 0 {
		return nil
	}

	stride := 1
	if len(frames) > targetRows {
		stride = (len(frames) + targetRows - 1) / targetRows
	}

	channels := len(frames[0].Voices)
	lastNote := make([]*chip.Note, channels)
	gated := make([]bool, channels)

	var events []NoteEvent
	row := 0
	for i := 0; i < len(frames); i += stride {
		frame := frames[i]
		for ch := 0; ch < channels && ch < len(frame.Voices); ch++ {
			v := frame.Voices[ch]

			if !v.NoteOn {
				if gated[ch] {
					events = append(events, NoteEvent{
						Row:     row,
						Channel: ch,
						Kind:    NoteOff,
						Volume:  v.Volume,
					})
					gated[ch] = false
					// a re-gate at the same pitch is a new note
					lastNote[ch] = nil
				}
				continue
			}

			if v.Note == nil {
				// gated but unpitched, noise channels stay out of
				// the note stream
				gated[ch] = true
				continue
			}

			if lastNote[ch] == nil || *lastNote[ch] != *v.Note {
				events = append(events, NoteEvent{
					Row:     row,
					Channel: ch,
					Kind:    NoteOn,
					Note:    *v.Note,
					Volume:  v.Volume,
				})
				note := *v.Note
				lastNote[ch] = &note
			}
			gated[ch] = true
		}
		row++
	}
	return events
}
