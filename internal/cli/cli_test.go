package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func parseWith(t *testing.T, args ...string) func() {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"prog"}, args...)
	return func() { os.Args = oldArgs }
}

func TestParseFlags(t *testing.T) {
	cleanup := parseWith(t,
		"-chip", "ay",
		"-load", "$8000", "-init", "0x8000", "-tick", "32784",
		"-rate", "50", "-seconds", "10", "-rows", "64",
		"tune.bin")
	defer cleanup()

	opts, extraction, err := ParseFlags()

	assert.NoError(t, err)
	assert.Equal(t, "tune.bin", opts.Input)
	assert.Equal(t, "ay", extraction.Chip)
	assert.Equal(t, uint16(0x8000), extraction.LoadAddr)
	assert.Equal(t, uint16(0x8000), extraction.InitAddr)
	assert.Equal(t, uint16(0x8010), extraction.TickAddr)
	assert.Equal(t, 500, extraction.Ticks)
	assert.Equal(t, 64, extraction.TargetRows)
}

func TestParseFlagsNoInput(t *testing.T) {
	cleanup := parseWith(t, "-chip", "apu")
	defer cleanup()

	_, _, err := ParseFlags()

	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseFlagsChipAliases(t *testing.T) {
	cleanup := parseWith(t,
		"-chip", "YM2149",
		"-load", "$8000", "-init", "$8000", "-tick", "$8010",
		"tune.bin")
	defer cleanup()

	_, extraction, err := ParseFlags()

	assert.NoError(t, err)
	assert.Equal(t, "ay", extraction.Chip)
}

func TestParseFlagsInvalidChip(t *testing.T) {
	cleanup := parseWith(t,
		"-chip", "sn76489",
		"-load", "$8000", "-init", "$8000", "-tick", "$8010",
		"tune.bin")
	defer cleanup()

	_, _, err := ParseFlags()

	assert.Error(t, err)
}

func TestParseFlagsMissingAddress(t *testing.T) {
	cleanup := parseWith(t, "-chip", "apu", "tune.bin")
	defer cleanup()

	_, _, err := ParseFlags()

	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		value string
		want  uint16
		fails bool
	}{
		{value: "$D400", want: 0xD400},
		{value: "0xD400", want: 0xD400},
		{value: "32768", want: 0x8000},
		{value: "", fails: true},
		{value: "$12345", fails: true},
		{value: "banana", fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			addr, err := parseAddress("load", tt.value)

			if tt.fails {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, addr)
		})
	}
}
