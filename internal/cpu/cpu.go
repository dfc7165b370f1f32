// Package cpu contains the contract shared by the instruction set emulators.
// It acts as a bridge between the replay driver and the CPU specific code.
package cpu

// Memory is the byte-addressable space a CPU executes against.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// PortBus receives I/O port accesses from CPUs that have a separate I/O
// space. The port is the full 16-bit value placed on the address bus,
// allowing hardware that decodes the high byte to be modeled.
type PortBus interface {
	In(port uint16) byte
	Out(port uint16, value byte)
}

// CPU is the contract shared by both emulator cores. Replayed player code
// is driven exclusively through Call: the core pushes a sentinel return
// address, jumps to the target and executes instructions until the stack
// pointer returns to or above its starting depth, meaning the subroutine
// has returned. The cycle budget bounds routines that never return; budget
// expiry is not an error, the caller simply observes whatever state exists
// at that point.
type CPU interface {
	// Reset initializes the register file and sets the program counter and
	// stack pointer.
	Reset(pc, sp uint16)
	// Step decodes and executes exactly one instruction and returns the
	// cycles consumed.
	Step() int
	// Call executes the subroutine at addr and returns the cycles consumed.
	Call(addr uint16, maxCycles int) int
}
