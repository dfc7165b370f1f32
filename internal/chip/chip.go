// Package chip defines the shared model for sound chip register tracking.
// A tracker is a pure function from a chip register file to the musical
// state of each voice, so the emulation core stays free of chip knowledge.
package chip

// RegisterFile is a snapshot of a chip's register window. Trackers index
// it by chip-local register number, reads past the end yield zero.
type RegisterFile []byte

// Reg returns register i, treating a short file as zero-padded.
func (r RegisterFile) Reg(i int) byte {
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i]
}

// VoiceState describes one voice at one point in time as derived from the
// register file alone.
type VoiceState struct {
	// NoteOn reports whether the voice is currently audible: its tone
	// output is enabled and its volume is above zero.
	NoteOn bool

	// Note is the nearest equal-tempered note, nil when the voice is
	// silent or its frequency falls outside the audible range.
	Note *Note

	// Frequency is the tone frequency in Hz, 0 when the voice produces
	// no pitched output.
	Frequency float64

	// Volume is the chip-local volume level, -1 when the chip exposes
	// no readable volume for this voice.
	Volume int
}

// Frame is the state of all voices of one chip at one replay tick.
type Frame struct {
	Tick   int
	Voices []VoiceState
}

// Tracker converts a register file snapshot into per-voice state.
type Tracker interface {
	// Channels returns the number of voices the chip exposes.
	Channels() int

	// Registers returns the size of the chip's register window.
	Registers() int

	// Voices derives the state of every voice from regs. The result
	// always has Channels() entries.
	Voices(regs RegisterFile) []VoiceState
}
