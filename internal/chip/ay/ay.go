// Package ay tracks the AY-3-8910/YM2149 register file. The chip is
// reached through a two-step port protocol, register select then data
// write, which the replay layer translates into plain register updates.
package ay

import (
	"github.com/retroenv/chipripper/internal/chip"
)

// ClockZX is the AY clock of the 128K ZX Spectrum.
const ClockZX = 1773400.0

// WindowSize covers the 16 registers R0-R15.
const WindowSize = 16

const (
	regMixer      = 7
	regVolumeBase = 8
)

// Tracker derives voice state from an AY register snapshot.
type Tracker struct {
	clock float64
}

// New returns a tracker using the ZX Spectrum clock.
func New() *Tracker {
	return &Tracker{clock: ClockZX}
}

// NewWithClock returns a tracker for a custom chip clock, for CPC or MSX
// machines.
func NewWithClock(clock float64) *Tracker {
	return &Tracker{clock: clock}
}

// Channels returns the number of tracked voices.
func (t *Tracker) Channels() int {
	return 3
}

// Registers returns the register file size.
func (t *Tracker) Registers() int {
	return WindowSize
}

// Voices derives the state of channels A, B and C. The mixer register is
// active low, a cleared bit enables tone output. A channel using the
// envelope generator (volume bit 4) counts as audible at full level.
func (t *Tracker) Voices(regs chip.RegisterFile) []chip.VoiceState {
	mixer := regs.Reg(regMixer)

	voices := make([]chip.VoiceState, 3)
	for ch := range voices {
		period := uint16(regs.Reg(ch*2)) | uint16(regs.Reg(ch*2+1)&0x0F)<<8
		volReg := regs.Reg(regVolumeBase + ch)

		volume := int(volReg & 0x0F)
		if volReg&0x10 != 0 { // envelope mode
			volume = 15
		}

		toneEnabled := mixer&(1<<ch) == 0
		on := toneEnabled && volume > 0 && period > 0

		state := chip.VoiceState{
			NoteOn: on,
			Volume: volume,
		}
		if on {
			state.Frequency = t.clock / (16 * float64(period))
			if note, ok := chip.NoteForFrequency(state.Frequency); ok {
				state.Note = &note
			}
		}
		voices[ch] = state
	}
	return voices
}

// PeriodValue returns the 12-bit period producing hz on this tracker's
// clock, for building register files in drivers and tests.
func (t *Tracker) PeriodValue(hz float64) uint16 {
	return uint16(t.clock/(16*hz)+0.5) & 0x0FFF
}
