package extract

import (
	"context"
	"testing"

	"github.com/retroenv/chipripper/internal/options"
	"github.com/retroenv/chipripper/internal/reduce"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// pulsePlayer is a 6502 APU player that holds one pulse note and cuts
// the volume once its tick counter at $00 reaches 50.
var pulsePlayer = []byte{
	// init at $8000
	0xA9, 0x01, // LDA #$01
	0x8D, 0x15, 0x40, // STA $4015
	0xA9, 0x00, // LDA #$00
	0x85, 0x00, // STA $00
	0x60, // RTS
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// tick at $8010
	0xA9, 0x3F, // LDA #$3F
	0x8D, 0x00, 0x40, // STA $4000
	0xA9, 0xFD, // LDA #253
	0x8D, 0x02, 0x40, // STA $4002
	0xA9, 0x00, // LDA #$00
	0x8D, 0x03, 0x40, // STA $4003
	0xE6, 0x00, // INC $00
	0xA5, 0x00, // LDA $00
	0xC9, 0x32, // CMP #50
	0x90, 0x05, // BCC +5 (skip the volume cut)
	0xA9, 0x30, // LDA #$30 (volume 0)
	0x8D, 0x00, 0x40, // STA $4000
	0x60, // RTS
}

func TestPulseExtractionEndToEnd(t *testing.T) {
	extractor := New(log.NewTestLogger(t))

	result, err := extractor.Run(context.Background(), options.Extraction{
		Code:       pulsePlayer,
		LoadAddr:   0x8000,
		InitAddr:   0x8000,
		TickAddr:   0x8010,
		Chip:       "apu",
		Ticks:      100,
		TargetRows: 100,
	})

	assert.NoError(t, err)
	assert.Equal(t, 100, result.Ticks)

	// one note held for 49 ticks, then the volume cut: exactly one
	// NoteOn and one NoteOff on the pulse channel
	assert.Len(t, result.Events, 2)

	on := result.Events[0]
	assert.Equal(t, reduce.NoteOn, on.Kind)
	assert.Equal(t, 0, on.Row)
	assert.Equal(t, 0, on.Channel)
	assert.Equal(t, "A-4", on.Note.String())

	off := result.Events[1]
	assert.Equal(t, reduce.NoteOff, off.Kind)
	assert.Equal(t, 49, off.Row)
	assert.Equal(t, 0, off.Channel)
}

// ayPlayer programs AY channel A through the ZX Spectrum port pair.
var ayPlayer = []byte{
	// init at $8000
	0xC9, // RET
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// tick at $8010
	0x01, 0xFD, 0xFF, // LD BC,$FFFD
	0x3E, 0x00, // select R0
	0xED, 0x79,
	0x06, 0xBF, // data port
	0x3E, 0xFC, // period 252
	0xED, 0x79,
	0x06, 0xFF,
	0x3E, 0x07, // select mixer
	0xED, 0x79,
	0x06, 0xBF,
	0x3E, 0xFE, // tone A enabled
	0xED, 0x79,
	0x06, 0xFF,
	0x3E, 0x08, // select volume A
	0xED, 0x79,
	0x06, 0xBF,
	0x3E, 0x0F, // full volume
	0xED, 0x79,
	0xC9, // RET
}

func TestAYExtractionEndToEnd(t *testing.T) {
	extractor := New(log.NewTestLogger(t))

	result, err := extractor.Run(context.Background(), options.Extraction{
		Code:       ayPlayer,
		LoadAddr:   0x8000,
		InitAddr:   0x8000,
		TickAddr:   0x8010,
		Chip:       "ay",
		Ticks:      20,
		TargetRows: 20,
	})

	assert.NoError(t, err)
	assert.Len(t, result.Events, 1)
	assert.Equal(t, reduce.NoteOn, result.Events[0].Kind)
	assert.Equal(t, "A-4", result.Events[0].Note.String())
	assert.Equal(t, 15, result.Events[0].Volume)
}

func TestCancelledContextStopsReplay(t *testing.T) {
	extractor := New(log.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := extractor.Run(ctx, options.Extraction{
		Code:     pulsePlayer,
		LoadAddr: 0x8000,
		InitAddr: 0x8000,
		TickAddr: 0x8010,
		Chip:     "apu",
		Ticks:    1000,
	})

	assert.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 0, result.Ticks)
}

func TestUnsupportedChip(t *testing.T) {
	extractor := New(log.NewTestLogger(t))

	_, err := extractor.Run(context.Background(), options.Extraction{
		Code: pulsePlayer,
		Chip: "sn76489",
	})

	assert.Error(t, err)
}

func TestChannelCount(t *testing.T) {
	tests := []struct {
		chip string
		want int
	}{
		{chip: "apu", want: 4},
		{chip: "sid", want: 3},
		{chip: "pokey", want: 4},
		{chip: "ay", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.chip, func(t *testing.T) {
			got, err := ChannelCount(tt.chip)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
