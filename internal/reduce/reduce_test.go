package reduce

import (
	"testing"

	"github.com/retroenv/chipripper/internal/chip"
	"github.com/retroenv/retrogolib/assert"
)

func note(name string, hz float64) *chip.Note {
	n, ok := chip.NoteForFrequency(hz)
	if !ok {
		panic(name)
	}
	return &n
}

// frameSeq builds single-channel frames from per-tick states.
func frameSeq(states ...chip.VoiceState) []chip.Frame {
	frames := make([]chip.Frame, len(states))
	for i, s := range states {
		frames[i] = chip.Frame{Tick: i, Voices: []chip.VoiceState{s}}
	}
	return frames
}

func on(hz float64, volume int) chip.VoiceState {
	return chip.VoiceState{NoteOn: true, Note: note("", hz), Frequency: hz, Volume: volume}
}

func off() chip.VoiceState {
	return chip.VoiceState{Volume: -1}
}

func TestUnchangedNoteEmitsOnce(t *testing.T) {
	frames := frameSeq(on(440, 15), on(440, 15), on(440, 15), on(440, 15))

	events := Reduce(frames, 100)

	assert.Len(t, events, 1)
	assert.Equal(t, NoteOn, events[0].Kind)
	assert.Equal(t, 0, events[0].Row)
	assert.Equal(t, "A-4", events[0].Note.String())
	assert.Equal(t, 15, events[0].Volume)
}

func TestNoteChangeEmitsAgain(t *testing.T) {
	frames := frameSeq(on(440, 15), on(440, 15), on(523.25, 15))

	events := Reduce(frames, 100)

	assert.Len(t, events, 2)
	assert.Equal(t, "A-4", events[0].Note.String())
	assert.Equal(t, "C-5", events[1].Note.String())
	assert.Equal(t, 2, events[1].Row)
}

func TestGateDropEmitsSingleNoteOff(t *testing.T) {
	frames := frameSeq(on(440, 15), off(), off(), off())

	events := Reduce(frames, 100)

	assert.Len(t, events, 2)
	assert.Equal(t, NoteOff, events[1].Kind)
	assert.Equal(t, 1, events[1].Row)
}

func TestRegateSamePitchEmitsNewNoteOn(t *testing.T) {
	frames := frameSeq(on(440, 15), off(), on(440, 15))

	events := Reduce(frames, 100)

	assert.Len(t, events, 3)
	assert.Equal(t, NoteOn, events[0].Kind)
	assert.Equal(t, NoteOff, events[1].Kind)
	assert.Equal(t, NoteOn, events[2].Kind)
	assert.Equal(t, 2, events[2].Row)
}

func TestDownsamplingStride(t *testing.T) {
	// 1000 frames into 10 rows: stride 100, note changes at frame 500
	// land on row 5.
	var states []chip.VoiceState
	for i := 0; i < 1000; i++ {
		if i < 500 {
			states = append(states, on(440, 15))
		} else {
			states = append(states, on(880, 15))
		}
	}

	events := Reduce(frameSeq(states...), 10)

	assert.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Row)
	assert.Equal(t, "A-4", events[0].Note.String())
	assert.Equal(t, 5, events[1].Row)
	assert.Equal(t, "A-5", events[1].Note.String())
}

func TestShortInputPassesThrough(t *testing.T) {
	frames := frameSeq(on(440, 15), on(523.25, 15), off())

	a := Reduce(frames, 100)
	b := Reduce(frames, 3)

	assert.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i], b[i])
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	frames := []chip.Frame{
		{Tick: 0, Voices: []chip.VoiceState{on(440, 15), off()}},
		{Tick: 1, Voices: []chip.VoiceState{on(440, 15), on(220, 8)}},
	}

	events := Reduce(frames, 100)

	assert.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Channel)
	assert.Equal(t, 0, events[0].Row)
	assert.Equal(t, 1, events[1].Channel)
	assert.Equal(t, 1, events[1].Row)
	assert.Equal(t, "A-3", events[1].Note.String())
}

func TestUnpitchedGateProducesNoNoteOn(t *testing.T) {
	noise := chip.VoiceState{NoteOn: true, Volume: 8}
	frames := frameSeq(noise, noise, off())

	events := Reduce(frames, 100)

	// the gate drop is still reported
	assert.Len(t, events, 1)
	assert.Equal(t, NoteOff, events[0].Kind)
}

func TestEmptyInput(t *testing.T) {
	assert.Nil(t, Reduce(nil, 10))
	assert.Nil(t, Reduce(frameSeq(on(440, 15)), 0))
}
