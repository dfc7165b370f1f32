// Package sid tracks the C64 SID register window at $D400-$D418. Each of
// the three voices occupies seven registers, followed by the filter and
// master volume block.
package sid

import (
	"github.com/retroenv/chipripper/internal/chip"
)

// ClockPAL is the PAL C64 system clock driving the oscillators.
const ClockPAL = 985248.0

// WindowSize covers $D400-$D418.
const WindowSize = 0x19

const (
	voiceRegs = 7

	regFreqLo  = 0
	regFreqHi  = 1
	regControl = 4

	regModeVolume = 0x18
)

// Control register bits.
const (
	ctrlGate = 0x01
	ctrlTest = 0x08
)

// Tracker derives voice state from a SID register snapshot.
type Tracker struct {
	clock float64
}

// New returns a tracker using the PAL clock.
func New() *Tracker {
	return &Tracker{clock: ClockPAL}
}

// NewWithClock returns a tracker for a custom system clock, for NTSC units.
func NewWithClock(clock float64) *Tracker {
	return &Tracker{clock: clock}
}

// Channels returns the number of tracked voices.
func (t *Tracker) Channels() int {
	return 3
}

// Registers returns the register window size.
func (t *Tracker) Registers() int {
	return WindowSize
}

// Voices derives the state of the three oscillators. A voice sounds when
// its gate bit is set, a waveform is selected, the test bit is clear and
// the master volume is nonzero. The SID has no per-voice volume, every
// voice reports the master volume.
func (t *Tracker) Voices(regs chip.RegisterFile) []chip.VoiceState {
	volume := int(regs.Reg(regModeVolume) & 0x0F)

	voices := make([]chip.VoiceState, 3)
	for v := range voices {
		base := v * voiceRegs
		control := regs.Reg(base + regControl)
		value := uint16(regs.Reg(base+regFreqLo)) | uint16(regs.Reg(base+regFreqHi))<<8

		on := control&ctrlGate != 0 &&
			control&0xF0 != 0 &&
			control&ctrlTest == 0 &&
			volume > 0

		state := chip.VoiceState{
			NoteOn: on,
			Volume: volume,
		}
		if on {
			state.Frequency = float64(value) * t.clock / (1 << 24)
			if note, ok := chip.NoteForFrequency(state.Frequency); ok {
				state.Note = &note
			}
		}
		voices[v] = state
	}
	return voices
}

// FrequencyValue returns the 16-bit register value that produces hz on
// this tracker's clock, for building register files in drivers and tests.
func (t *Tracker) FrequencyValue(hz float64) uint16 {
	return uint16(hz*(1<<24)/t.clock + 0.5)
}
