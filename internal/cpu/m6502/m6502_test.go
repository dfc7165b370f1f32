package m6502

import (
	"testing"

	"github.com/retroenv/chipripper/internal/bus"
	"github.com/retroenv/retrogolib/assert"
)

func setup(code []byte) (*CPU, *bus.AddressSpace) {
	space := bus.New()
	space.LoadBlock(0x8000, code)
	c := New(space)
	c.Reset(0x8000, 0xFF)
	return c, space
}

func TestImmediateLoads(t *testing.T) {
	tests := []struct {
		name    string
		code    []byte
		value   byte
		get     func(c *CPU) byte
		sign    bool
		zero    bool
	}{
		{name: "LDA positive", code: []byte{0xA9, 0x42}, value: 0x42, get: func(c *CPU) byte { return c.A }},
		{name: "LDA zero", code: []byte{0xA9, 0x00}, value: 0x00, get: func(c *CPU) byte { return c.A }, zero: true},
		{name: "LDX negative", code: []byte{0xA2, 0x80}, value: 0x80, get: func(c *CPU) byte { return c.X }, sign: true},
		{name: "LDY positive", code: []byte{0xA0, 0x7F}, value: 0x7F, get: func(c *CPU) byte { return c.Y }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setup(tt.code)

			cycles := c.Step()

			assert.Equal(t, 2, cycles)
			assert.Equal(t, tt.value, tt.get(c))
			assert.Equal(t, tt.zero, c.SR&flagZ != 0)
			assert.Equal(t, tt.sign, c.SR&flagN != 0)
		})
	}
}

func TestBranches(t *testing.T) {
	t.Run("not taken advances past operand", func(t *testing.T) {
		c, _ := setup([]byte{0xD0, 0x10}) // BNE +16 with Z set
		c.SR |= flagZ

		cycles := c.Step()

		assert.Equal(t, 2, cycles)
		assert.Equal(t, uint16(0x8002), c.PC)
	})

	t.Run("taken jumps relative to next instruction", func(t *testing.T) {
		c, _ := setup([]byte{0xD0, 0x10}) // BNE +16 with Z clear

		cycles := c.Step()

		assert.Equal(t, 3, cycles)
		assert.Equal(t, uint16(0x8012), c.PC)
	})

	t.Run("negative displacement", func(t *testing.T) {
		c, _ := setup([]byte{0xF0, 0xFE}) // BEQ -2, branch to itself
		c.SR |= flagZ

		c.Step()

		assert.Equal(t, uint16(0x8000), c.PC)
	})
}

func TestSubroutineRoundTrip(t *testing.T) {
	// JSR $8005; NOP; <pad>; LDA #$55; RTS
	code := []byte{
		0x20, 0x05, 0x80, // JSR $8005
		0xEA,       // NOP, the caller's next instruction
		0xEA,       // padding
		0xA9, 0x55, // LDA #$55
		0x60, // RTS
	}
	c, _ := setup(code)
	startSP := c.SP

	c.Step() // JSR
	assert.Equal(t, uint16(0x8005), c.PC)
	assert.Equal(t, startSP-2, c.SP)

	c.Step() // LDA
	c.Step() // RTS

	assert.Equal(t, byte(0x55), c.A)
	assert.Equal(t, uint16(0x8003), c.PC)
	assert.Equal(t, startSP, c.SP)
}

func TestJmpIndirectPageWrap(t *testing.T) {
	c, space := setup([]byte{0x6C, 0xFF, 0x30}) // JMP ($30FF)
	space.Write(0x30FF, 0x34)
	// the high byte comes from $3000, not $3100
	space.Write(0x3000, 0x12)
	space.Write(0x3100, 0x99)

	c.Step()

	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestStackOps(t *testing.T) {
	c, _ := setup([]byte{0xA9, 0xC1, 0x48, 0xA9, 0x00, 0x68}) // LDA #$C1; PHA; LDA #0; PLA

	for range 4 {
		c.Step()
	}

	assert.Equal(t, byte(0xC1), c.A)
	assert.True(t, c.SR&flagN != 0)
	assert.False(t, c.SR&flagZ != 0)
}

func TestAddWithCarry(t *testing.T) {
	tests := []struct {
		name     string
		a        byte
		operand  byte
		carryIn  bool
		result   byte
		carryOut bool
		overflow bool
	}{
		{name: "simple add", a: 0x10, operand: 0x20, result: 0x30},
		{name: "carry in as tenth bit", a: 0x10, operand: 0x20, carryIn: true, result: 0x31},
		{name: "carry out", a: 0xFF, operand: 0x01, result: 0x00, carryOut: true},
		{name: "signed overflow", a: 0x7F, operand: 0x01, result: 0x80, overflow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setup([]byte{0x69, tt.operand}) // ADC #
			c.A = tt.a
			c.setFlag(flagC, tt.carryIn)

			c.Step()

			assert.Equal(t, tt.result, c.A)
			assert.Equal(t, tt.carryOut, c.SR&flagC != 0)
			assert.Equal(t, tt.overflow, c.SR&flagV != 0)
		})
	}
}

func TestUndocumentedNopsKeepStreamInSync(t *testing.T) {
	// double byte NOP, triple byte NOP, then a real load
	c, _ := setup([]byte{0x80, 0xFF, 0x0C, 0xFF, 0xFF, 0xA9, 0x77})

	c.Step()
	assert.Equal(t, uint16(0x8002), c.PC)
	c.Step()
	assert.Equal(t, uint16(0x8005), c.PC)
	c.Step()

	assert.Equal(t, byte(0x77), c.A)
}

func TestRunUntilStackDepth(t *testing.T) {
	t.Run("returning routine terminates", func(t *testing.T) {
		c, _ := setup([]byte{0xA9, 0x0F, 0x60}) // LDA #$0F; RTS

		cycles := c.Call(0x8000, 10000)

		assert.Equal(t, byte(0x0F), c.A)
		assert.True(t, cycles < 10000)
	})

	t.Run("infinite loop exhausts the budget", func(t *testing.T) {
		c, _ := setup([]byte{0x4C, 0x00, 0x80}) // JMP $8000

		cycles := c.Call(0x8000, 300)

		assert.True(t, cycles >= 300)
	})

	t.Run("stack pointer restored after call", func(t *testing.T) {
		c, _ := setup([]byte{0x60}) // RTS
		startSP := c.SP

		c.Call(0x8000, 100)

		assert.Equal(t, startSP, c.SP)
	})
}
