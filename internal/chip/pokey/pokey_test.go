package pokey

import (
	"math"
	"testing"

	"github.com/retroenv/chipripper/internal/chip"
	"github.com/retroenv/retrogolib/assert"
)

func TestPureToneOn64kHzBase(t *testing.T) {
	// AUDF 71 on the 64 kHz base clock lands at 439.8 Hz.
	regs := make(chip.RegisterFile, WindowSize)
	regs[0] = 71
	regs[1] = audcPureTone | 0x0F

	voices := New().Voices(regs)

	assert.Len(t, voices, 4)
	v := voices[0]
	assert.True(t, v.NoteOn)
	assert.Equal(t, 15, v.Volume)
	assert.True(t, math.Abs(v.Frequency-440) < 440*0.01)
	assert.NotNil(t, v.Note)
	assert.Equal(t, "A-4", v.Note.String())
}

func TestFastClockChannel(t *testing.T) {
	// with AUDCTL bit 6 set channel 1 divides the machine clock directly
	// and uses the AUDF+4 divisor.
	regs := make(chip.RegisterFile, WindowSize)
	regs[0] = 0xFF
	regs[1] = audcPureTone | 0x08
	regs[regAudctl] = audctlCh1Fast

	voices := New().Voices(regs)

	want := ClockPAL / (2 * (255 + 4))
	assert.True(t, math.Abs(voices[0].Frequency-want) < 0.01)

	// channel 2 stays on the base clock
	regs[2] = 0xFF
	regs[3] = audcPureTone | 0x08
	voices = New().Voices(regs)
	assert.True(t, voices[1].Frequency < voices[0].Frequency)
}

func TestSlowBaseClock(t *testing.T) {
	regs := make(chip.RegisterFile, WindowSize)
	regs[0] = 10
	regs[1] = audcPureTone | 0x08

	fast := New().Voices(regs)[0].Frequency

	regs[regAudctl] = audctlSlowBase
	slow := New().Voices(regs)[0].Frequency

	// 15 kHz base is roughly a quarter of the 64 kHz base
	assert.True(t, math.Abs(slow/fast-float64(div64kHz)/float64(div15kHz)) < 0.001)
}

func TestNoiseModeHasGateButNoNote(t *testing.T) {
	regs := make(chip.RegisterFile, WindowSize)
	regs[0] = 71
	regs[1] = 0x8F // poly noise distortion

	v := New().Voices(regs)[0]

	assert.True(t, v.NoteOn)
	assert.Nil(t, v.Note)
	assert.Equal(t, 0.0, v.Frequency)
}

func TestVolumeOnlyModeIsSilent(t *testing.T) {
	regs := make(chip.RegisterFile, WindowSize)
	regs[1] = audcVolumeOnly | 0x0F

	v := New().Voices(regs)[0]

	assert.False(t, v.NoteOn)
}

func TestZeroVolumeIsSilent(t *testing.T) {
	regs := make(chip.RegisterFile, WindowSize)
	regs[0] = 71
	regs[1] = audcPureTone

	v := New().Voices(regs)[0]

	assert.False(t, v.NoteOn)
}
