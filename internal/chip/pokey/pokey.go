// Package pokey tracks the Atari POKEY register window at $D200-$D208.
// The four channels are AUDF/AUDC pairs, the shared AUDCTL register
// selects the base clock and can switch channels 1 and 3 to the full
// machine clock.
package pokey

import (
	"github.com/retroenv/chipripper/internal/chip"
)

// ClockPAL is the PAL Atari machine clock.
const ClockPAL = 1773447.0

// WindowSize covers $D200-$D208.
const WindowSize = 9

const regAudctl = 8

// AUDCTL bits.
const (
	audctlSlowBase = 0x01 // 15 kHz base clock instead of 64 kHz
	audctlCh3Fast  = 0x20 // channel 3 runs at the machine clock
	audctlCh1Fast  = 0x40 // channel 1 runs at the machine clock
)

// AUDC bits.
const (
	audcVolumeOnly = 0x10
	audcDistortion = 0xE0
	audcPureTone   = 0xA0
)

// Base clock dividers of the machine clock.
const (
	div64kHz = 28
	div15kHz = 114
)

// Tracker derives voice state from a POKEY register snapshot.
type Tracker struct {
	clock float64
}

// New returns a tracker using the PAL clock.
func New() *Tracker {
	return &Tracker{clock: ClockPAL}
}

// NewWithClock returns a tracker for a custom machine clock, for NTSC
// units.
func NewWithClock(clock float64) *Tracker {
	return &Tracker{clock: clock}
}

// Channels returns the number of tracked voices.
func (t *Tracker) Channels() int {
	return 4
}

// Registers returns the register window size.
func (t *Tracker) Registers() int {
	return WindowSize
}

// Voices derives the state of all four channels. A channel counts as
// pitched only in pure tone distortion mode, the polynomial noise modes
// carry gate and volume but no note. Channels running at the machine
// clock divide by AUDF+4 instead of AUDF+1, matching the longer reload
// path of the fast counters.
func (t *Tracker) Voices(regs chip.RegisterFile) []chip.VoiceState {
	audctl := regs.Reg(regAudctl)

	base := t.clock / div64kHz
	if audctl&audctlSlowBase != 0 {
		base = t.clock / div15kHz
	}

	voices := make([]chip.VoiceState, 4)
	for ch := range voices {
		audf := float64(regs.Reg(ch * 2))
		audc := regs.Reg(ch*2 + 1)
		volume := int(audc & 0x0F)

		fast := (ch == 0 && audctl&audctlCh1Fast != 0) ||
			(ch == 2 && audctl&audctlCh3Fast != 0)

		var freq float64
		if fast {
			freq = t.clock / (2 * (audf + 4))
		} else {
			freq = base / (2 * (audf + 1))
		}

		on := volume > 0 && audc&audcVolumeOnly == 0
		state := chip.VoiceState{
			NoteOn: on,
			Volume: volume,
		}
		if on && audc&audcDistortion == audcPureTone {
			state.Frequency = freq
			if note, ok := chip.NoteForFrequency(freq); ok {
				state.Note = &note
			}
		}
		voices[ch] = state
	}
	return voices
}
