// Package bus provides the flat 64 KiB address space that replayed player
// code executes against.
package bus

// Size is the number of addressable bytes.
const Size = 0x10000

// WriteIntercept is invoked synchronously after every CPU write with the
// address and value written. The underlying byte is stored regardless of
// any registered intercepts.
type WriteIntercept func(addr uint16, value byte)

// AddressSpace is a fully mutable byte-addressable space. Addresses wrap
// modulo the space size by construction, so no access can fault. Chip
// registers and unmapped regions are handled by layering write intercepts,
// never by signaling failure.
type AddressSpace struct {
	mem        [Size]byte
	intercepts []WriteIntercept
}

// New returns a zeroed address space.
func New() *AddressSpace {
	return &AddressSpace{}
}

// Read returns the byte at addr.
func (a *AddressSpace) Read(addr uint16) byte {
	return a.mem[addr]
}

// Write stores value at addr and then invokes all registered write
// intercepts in registration order.
func (a *AddressSpace) Write(addr uint16, value byte) {
	a.mem[addr] = value
	for _, fn := range a.intercepts {
		fn(addr, value)
	}
}

// LoadBlock copies data into the space starting at addr, wrapping at the
// top of the space. No write intercepts fire.
func (a *AddressSpace) LoadBlock(addr uint16, data []byte) {
	for i, b := range data {
		a.mem[addr+uint16(i)] = b
	}
}

// OnWrite registers an intercept invoked after every write.
func (a *AddressSpace) OnWrite(fn WriteIntercept) {
	a.intercepts = append(a.intercepts, fn)
}
