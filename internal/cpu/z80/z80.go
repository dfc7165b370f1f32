// Package z80 emulates the Z80 CPU family found in the ZX Spectrum, MSX
// and Amstrad CPC. On top of the 6502 family contract it decodes the four
// opcode prefix families, keeps a shadow register bank and routes port I/O
// through a callback separate from memory, which is the only path by which
// ZX Spectrum player code reaches the sound chip.
package z80

import (
	"github.com/retroenv/chipripper/internal/cpu"
)

// Flag masks of the F register.
const (
	flagC  = 0x01 // carry
	flagN  = 0x02 // add/subtract
	flagPV = 0x04 // parity/overflow
	flagH  = 0x10 // half carry
	flagZ  = 0x40 // zero
	flagS  = 0x80 // sign
)

// callSentinel is the synthetic return address pushed by Call.
const callSentinel = 0xFFF9

var _ cpu.CPU = &CPU{}

// CPU holds the main and shadow register banks. Registers are exported so
// a driver can preset them the way native player headers prescribe.
type CPU struct {
	A, F, B, C, D, E, H, L         byte
	A2, F2, B2, C2, D2, E2, H2, L2 byte

	IX, IY, SP, PC uint16

	I, R   byte
	IFF1   bool
	IFF2   bool
	Halted bool

	mem   cpu.Memory
	ports cpu.PortBus
}

// New returns a CPU executing against mem with I/O routed to ports.
// A nil port bus turns IN into reads of 0xFF and OUT into no-ops.
func New(mem cpu.Memory, ports cpu.PortBus) *CPU {
	return &CPU{
		mem:   mem,
		ports: ports,
		SP:    0xFFFF,
	}
}

// Reset initializes the register file and sets the program counter and
// stack pointer. Both register banks are cleared.
func (c *CPU) Reset(pc, sp uint16) {
	*c = CPU{
		mem:   c.mem,
		ports: c.ports,
		PC:    pc,
		SP:    sp,
	}
}

// Call pushes a sentinel return address, jumps to addr and executes
// instructions until the stack pointer returns to or above its starting
// depth or the cycle budget is exhausted. Returns the cycles consumed.
func (c *CPU) Call(addr uint16, maxCycles int) int {
	depth := c.SP
	c.push16(callSentinel)
	c.PC = addr
	c.Halted = false
	return c.RunUntilStackDepth(depth, maxCycles)
}

// RunUntilStackDepth executes instructions until the stack pointer is at or
// above depth or the cycle budget is exhausted. Returns the cycles consumed.
func (c *CPU) RunUntilStackDepth(depth uint16, maxCycles int) int {
	cycles := 0
	for c.SP < depth && cycles < maxCycles {
		cycles += c.Step()
	}
	return cycles
}

// Step decodes and executes one instruction and returns the cycles
// consumed. A halted CPU burns cycles without advancing, interrupts are
// not modeled.
func (c *CPU) Step() int {
	if c.Halted {
		return 4
	}

	opcode := c.fetch()
	c.R = c.R&0x80 | (c.R+1)&0x7F

	switch opcode {
	case 0xCB:
		return c.stepCB()
	case 0xDD:
		return c.stepIndex(&c.IX)
	case 0xFD:
		return c.stepIndex(&c.IY)
	case 0xED:
		return c.stepED()
	default:
		return c.stepBase(opcode)
	}
}

// register pair accessors

// AF returns the accumulator and flags as a pair.
func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

// BC returns the BC register pair.
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }

// DE returns the DE register pair.
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }

// HL returns the HL register pair.
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// SetAF sets the accumulator and flags from a pair value.
func (c *CPU) SetAF(v uint16) { c.A, c.F = byte(v>>8), byte(v) }

// SetBC sets the BC register pair.
func (c *CPU) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }

// SetDE sets the DE register pair.
func (c *CPU) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }

// SetHL sets the HL register pair.
func (c *CPU) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }

// exAF exchanges AF with the shadow bank.
func (c *CPU) exAF() {
	c.A, c.A2 = c.A2, c.A
	c.F, c.F2 = c.F2, c.F
}

// exx exchanges BC, DE and HL with the shadow bank.
func (c *CPU) exx() {
	c.B, c.B2 = c.B2, c.B
	c.C, c.C2 = c.C2, c.C
	c.D, c.D2 = c.D2, c.D
	c.E, c.E2 = c.E2, c.E
	c.H, c.H2 = c.H2, c.H
	c.L, c.L2 = c.L2, c.L
}

// memory and port access

func (c *CPU) fetch() byte {
	b := c.mem.Read(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.mem.Read(addr)
	hi := c.mem.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write16(addr, v uint16) {
	c.mem.Write(addr, byte(v))
	c.mem.Write(addr+1, byte(v>>8))
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

func (c *CPU) in(port uint16) byte {
	if c.ports == nil {
		return 0xFF
	}
	return c.ports.In(port)
}

func (c *CPU) out(port uint16, value byte) {
	if c.ports != nil {
		c.ports.Out(port, value)
	}
}

// 8-bit register access by instruction encoding: B C D E H L (HL) A.

func (c *CPU) readReg(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.mem.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) writeReg(code, value byte) {
	switch code {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case 6:
		c.mem.Write(c.HL(), value)
	default:
		c.A = value
	}
}

// flags

func (c *CPU) flag(mask byte) bool {
	return c.F&mask != 0
}

func (c *CPU) setFlag(mask byte, on bool) {
	if on {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

func parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

func (c *CPU) setSZP(v byte) {
	c.setFlag(flagS, v&0x80 != 0)
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagPV, parity(v))
}

// condition by encoding: NZ Z NC C PO PE P M.
func (c *CPU) condition(code byte) bool {
	switch code {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	case 3:
		return c.flag(flagC)
	case 4:
		return !c.flag(flagPV)
	case 5:
		return c.flag(flagPV)
	case 6:
		return !c.flag(flagS)
	default:
		return c.flag(flagS)
	}
}

// 8-bit ALU with the dedicated half carry flag

func (c *CPU) add8(value byte, carry bool) {
	cin := byte(0)
	if carry && c.flag(flagC) {
		cin = 1
	}
	result := uint16(c.A) + uint16(value) + uint16(cin)
	r := byte(result)
	c.setFlag(flagH, c.A&0x0F+value&0x0F+cin > 0x0F)
	c.setFlag(flagC, result > 0xFF)
	c.setFlag(flagPV, (c.A^r)&(value^r)&0x80 != 0)
	c.setFlag(flagN, false)
	c.setFlag(flagS, r&0x80 != 0)
	c.setFlag(flagZ, r == 0)
	c.A = r
}

// sub8 subtracts and returns the result without storing it, allowing CP to
// share the flag logic with SUB/SBC.
func (c *CPU) sub8(value byte, carry bool) byte {
	cin := byte(0)
	if carry && c.flag(flagC) {
		cin = 1
	}
	result := uint16(c.A) - uint16(value) - uint16(cin)
	r := byte(result)
	c.setFlag(flagH, c.A&0x0F < value&0x0F+cin)
	c.setFlag(flagC, result > 0xFF)
	c.setFlag(flagPV, (c.A^value)&(c.A^r)&0x80 != 0)
	c.setFlag(flagN, true)
	c.setFlag(flagS, r&0x80 != 0)
	c.setFlag(flagZ, r == 0)
	return r
}

func (c *CPU) and8(value byte) {
	c.A &= value
	c.setSZP(c.A)
	c.setFlag(flagH, true)
	c.setFlag(flagN, false)
	c.setFlag(flagC, false)
}

func (c *CPU) xor8(value byte) {
	c.A ^= value
	c.setSZP(c.A)
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagC, false)
}

func (c *CPU) or8(value byte) {
	c.A |= value
	c.setSZP(c.A)
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagC, false)
}

// alu dispatches by instruction encoding: ADD ADC SUB SBC AND XOR OR CP.
func (c *CPU) alu(op, value byte) {
	switch op {
	case 0:
		c.add8(value, false)
	case 1:
		c.add8(value, true)
	case 2:
		c.A = c.sub8(value, false)
	case 3:
		c.A = c.sub8(value, true)
	case 4:
		c.and8(value)
	case 5:
		c.xor8(value)
	case 6:
		c.or8(value)
	default:
		c.sub8(value, false) // CP stores nothing
	}
}

// inc8 and dec8 set every flag except carry.

func (c *CPU) inc8(value byte) byte {
	value++
	c.setFlag(flagH, value&0x0F == 0)
	c.setFlag(flagPV, value == 0x80)
	c.setFlag(flagN, false)
	c.setFlag(flagS, value&0x80 != 0)
	c.setFlag(flagZ, value == 0)
	return value
}

func (c *CPU) dec8(value byte) byte {
	value--
	c.setFlag(flagH, value&0x0F == 0x0F)
	c.setFlag(flagPV, value == 0x7F)
	c.setFlag(flagN, true)
	c.setFlag(flagS, value&0x80 != 0)
	c.setFlag(flagZ, value == 0)
	return value
}

// add16 implements ADD HL,rr / ADD IX,rr: half carry from bit 11, no
// sign/zero update.
func (c *CPU) add16(a, b uint16) uint16 {
	result := uint32(a) + uint32(b)
	c.setFlag(flagH, a&0x0FFF+b&0x0FFF > 0x0FFF)
	c.setFlag(flagC, result > 0xFFFF)
	c.setFlag(flagN, false)
	return uint16(result)
}

func (c *CPU) adc16(value uint16) {
	cin := uint32(0)
	if c.flag(flagC) {
		cin = 1
	}
	hl := c.HL()
	result := uint32(hl) + uint32(value) + cin
	r := uint16(result)
	c.setFlag(flagH, uint32(hl&0x0FFF)+uint32(value&0x0FFF)+cin > 0x0FFF)
	c.setFlag(flagC, result > 0xFFFF)
	c.setFlag(flagPV, (hl^r)&(value^r)&0x8000 != 0)
	c.setFlag(flagN, false)
	c.setFlag(flagS, r&0x8000 != 0)
	c.setFlag(flagZ, r == 0)
	c.SetHL(r)
}

func (c *CPU) sbc16(value uint16) {
	cin := uint32(0)
	if c.flag(flagC) {
		cin = 1
	}
	hl := c.HL()
	result := uint32(hl) - uint32(value) - cin
	r := uint16(result)
	c.setFlag(flagH, uint32(hl&0x0FFF) < uint32(value&0x0FFF)+cin)
	c.setFlag(flagC, result > 0xFFFF)
	c.setFlag(flagPV, (hl^value)&(hl^r)&0x8000 != 0)
	c.setFlag(flagN, true)
	c.setFlag(flagS, r&0x8000 != 0)
	c.setFlag(flagZ, r == 0)
	c.SetHL(r)
}
