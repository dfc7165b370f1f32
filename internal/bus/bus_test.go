package bus

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestReadWrite(t *testing.T) {
	space := New()

	space.Write(0x1234, 0xAB)

	assert.Equal(t, byte(0xAB), space.Read(0x1234))
	assert.Equal(t, byte(0x00), space.Read(0x1235))
}

func TestWriteIntercepts(t *testing.T) {
	space := New()
	var order []int
	var gotAddr uint16
	var gotValue byte

	space.OnWrite(func(addr uint16, value byte) {
		order = append(order, 1)
		gotAddr = addr
		gotValue = value
	})
	space.OnWrite(func(uint16, byte) {
		order = append(order, 2)
	})

	space.Write(0xD400, 0x42)

	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, uint16(0xD400), gotAddr)
	assert.Equal(t, byte(0x42), gotValue)
	// the byte is stored regardless of intercepts
	assert.Equal(t, byte(0x42), space.Read(0xD400))
}

func TestLoadBlock(t *testing.T) {
	t.Run("no intercepts fire", func(t *testing.T) {
		space := New()
		fired := false
		space.OnWrite(func(uint16, byte) {
			fired = true
		})

		space.LoadBlock(0x8000, []byte{1, 2, 3})

		assert.False(t, fired)
		assert.Equal(t, byte(1), space.Read(0x8000))
		assert.Equal(t, byte(3), space.Read(0x8002))
	})

	t.Run("wraps at top of space", func(t *testing.T) {
		space := New()

		space.LoadBlock(0xFFFF, []byte{0x11, 0x22})

		assert.Equal(t, byte(0x11), space.Read(0xFFFF))
		assert.Equal(t, byte(0x22), space.Read(0x0000))
	})
}
