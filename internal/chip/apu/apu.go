// Package apu tracks the NES APU register window at $4000-$4017. Voices
// are the two pulse channels, the triangle and the noise channel, in that
// order. The DMC channel carries samples, not pitched tones, and is not
// tracked.
package apu

import (
	"github.com/retroenv/chipripper/internal/chip"
)

// ClockNTSC is the NTSC CPU clock driving the APU timers.
const ClockNTSC = 1789773.0

// WindowSize covers $4000-$4017.
const WindowSize = 0x18

// Chip-local register offsets.
const (
	regPulse1Ctrl     = 0x00
	regPulse1TimerLo  = 0x02
	regPulse1TimerHi  = 0x03
	regPulse2Ctrl     = 0x04
	regPulse2TimerLo  = 0x06
	regPulse2TimerHi  = 0x07
	regTriangleLinear = 0x08
	regTriangleLo     = 0x0A
	regTriangleHi     = 0x0B
	regNoiseCtrl      = 0x0C
	regNoisePeriod    = 0x0E
	regStatus         = 0x15
)

// Tracker derives voice state from an APU register snapshot.
type Tracker struct {
	clock float64
}

// New returns a tracker using the NTSC clock.
func New() *Tracker {
	return &Tracker{clock: ClockNTSC}
}

// NewWithClock returns a tracker for a custom CPU clock, for PAL units.
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

// Voices derives the state of the two pulses, the triangle and the noise
// channel. The $4015 status register gates each channel, a disabled
// channel is silent no matter what its timer holds.
func (t *Tracker) Voices(regs chip.RegisterFile) []chip.VoiceState {
	status := regs.Reg(regStatus)

	return []chip.VoiceState{
		t.pulse(regs, regPulse1Ctrl, regPulse1TimerLo, regPulse1TimerHi, status&0x01 != 0),
		t.pulse(regs, regPulse2Ctrl, regPulse2TimerLo, regPulse2TimerHi, status&0x02 != 0),
		t.triangle(regs, status&0x04 != 0),
		t.noise(regs, status&0x08 != 0),
	}
}

func (t *Tracker) pulse(regs chip.RegisterFile, ctrl, lo, hi int, enabled bool) chip.VoiceState {
	timer := uint16(regs.Reg(lo)) | uint16(regs.Reg(hi)&0x07)<<8
	volume := int(regs.Reg(ctrl) & 0x0F)

	// timers below 8 silence the pulse sequencer on hardware
	on := enabled && volume > 0 && timer >= 8
	freq := t.clock / (16 * (float64(timer) + 1))
	return voice(on, freq, volume)
}

func (t *Tracker) triangle(regs chip.RegisterFile, enabled bool) chip.VoiceState {
	timer := uint16(regs.Reg(regTriangleLo)) | uint16(regs.Reg(regTriangleHi)&0x07)<<8

	// the triangle has no volume control, the linear counter gates it
	on := enabled && regs.Reg(regTriangleLinear)&0x7F > 0 && timer >= 2
	freq := t.clock / (32 * (float64(timer) + 1))

	state := voice(on, freq, -1)
	return state
}

func (t *Tracker) noise(regs chip.RegisterFile, enabled bool) chip.VoiceState {
	volume := int(regs.Reg(regNoiseCtrl) & 0x0F)

	// noise has no melodic pitch, it contributes gate and volume only
	return chip.VoiceState{
		NoteOn: enabled && volume > 0,
		Volume: volume,
	}
}

func voice(on bool, freq float64, volume int) chip.VoiceState {
	state := chip.VoiceState{
		NoteOn: on,
		Volume: volume,
	}
	if !on {
		return state
	}
	state.Frequency = freq
	if note, ok := chip.NoteForFrequency(freq); ok {
		state.Note = &note
	}
	return state
}
