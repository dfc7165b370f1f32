package sid

import (
	"math"
	"testing"

	"github.com/retroenv/chipripper/internal/chip"
	"github.com/retroenv/retrogolib/assert"
)

func regsWithVoice(value uint16, control byte) chip.RegisterFile {
	regs := make(chip.RegisterFile, WindowSize)
	regs[regFreqLo] = byte(value)
	regs[regFreqHi] = byte(value >> 8)
	regs[regControl] = control
	regs[regModeVolume] = 0x0F
	return regs
}

func TestConcertPitchRoundTrip(t *testing.T) {
	tracker := New()
	value := tracker.FrequencyValue(440)

	voices := tracker.Voices(regsWithVoice(value, 0x41)) // pulse + gate

	v := voices[0]
	assert.True(t, v.NoteOn)
	// a 16-bit register resolves 440 Hz to well under a cent
	cents := 1200 * math.Log2(v.Frequency/440)
	assert.True(t, math.Abs(cents) < 1)
	assert.NotNil(t, v.Note)
	assert.Equal(t, "A-4", v.Note.String())
}

func TestGateBit(t *testing.T) {
	tracker := New()
	value := tracker.FrequencyValue(440)

	t.Run("gate clear keeps the voice silent", func(t *testing.T) {
		voices := tracker.Voices(regsWithVoice(value, 0x40))
		assert.False(t, voices[0].NoteOn)
	})

	t.Run("test bit overrides the gate", func(t *testing.T) {
		voices := tracker.Voices(regsWithVoice(value, 0x49))
		assert.False(t, voices[0].NoteOn)
	})

	t.Run("no waveform selected", func(t *testing.T) {
		voices := tracker.Voices(regsWithVoice(value, 0x01))
		assert.False(t, voices[0].NoteOn)
	})
}

func TestMasterVolumeGatesAllVoices(t *testing.T) {
	tracker := New()
	regs := regsWithVoice(tracker.FrequencyValue(440), 0x41)
	regs[regModeVolume] = 0x00

	voices := tracker.Voices(regs)

	assert.False(t, voices[0].NoteOn)
	assert.Equal(t, 0, voices[0].Volume)
}

func TestThirdVoiceUsesOwnRegisters(t *testing.T) {
	tracker := New()
	regs := make(chip.RegisterFile, WindowSize)
	value := tracker.FrequencyValue(220)
	base := 2 * voiceRegs
	regs[base+regFreqLo] = byte(value)
	regs[base+regFreqHi] = byte(value >> 8)
	regs[base+regControl] = 0x21 // sawtooth + gate
	regs[regModeVolume] = 0x08

	voices := tracker.Voices(regs)

	assert.False(t, voices[0].NoteOn)
	assert.False(t, voices[1].NoteOn)
	assert.True(t, voices[2].NoteOn)
	assert.Equal(t, "A-3", voices[2].Note.String())
	assert.Equal(t, 8, voices[2].Volume)
}
