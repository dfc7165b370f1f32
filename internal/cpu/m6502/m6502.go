// Package m6502 emulates the 6502 CPU family found in the NES, the C64 and
// the Atari 8-bit line. The core favors replay robustness over strictness:
// undocumented opcodes are decoded far enough to keep the instruction
// stream in sync and unknown opcodes fall back to single byte no-ops,
// matching how hand-optimized player code behaves on real silicon.
package m6502

import (
	"github.com/retroenv/chipripper/internal/cpu"
	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/log"
)

// Status register flag masks.
const (
	flagC = 0x01 // carry
	flagZ = 0x02 // zero
	flagI = 0x04 // interrupt disable
	flagD = 0x08 // decimal mode
	flagB = 0x10 // break, only exists on the stack
	flagU = 0x20 // unused, always set
	flagV = 0x40 // overflow
	flagN = 0x80 // sign
)

const stackBase = 0x0100

// callSentinel is the synthetic return address pushed by Call. Execution
// never resumes there; Call stops on stack depth, not on the address.
const callSentinel = 0xFFF9

var _ cpu.CPU = &CPU{}

// CPU holds the full register file. Registers are exported so a driver can
// preset them before invoking a routine, the way native players pass a
// subsong index in the accumulator.
type CPU struct {
	A  byte
	X  byte
	Y  byte
	SP byte
	SR byte
	PC uint16

	mem    cpu.Memory
	logger *log.Logger
	trace  bool
}

// New returns a CPU executing against mem.
func New(mem cpu.Memory) *CPU {
	return &CPU{
		mem: mem,
		SR:  flagU,
		SP:  0xFF,
	}
}

// EnableTrace logs every executed instruction by mnemonic at debug level.
func (c *CPU) EnableTrace(logger *log.Logger) {
	c.logger = logger
	c.trace = true
}

// Reset initializes the register file and sets the program counter and
// stack pointer.
func (c *CPU) Reset(pc, sp uint16) {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SR = flagU
	c.SP = byte(sp)
	c.PC = pc
}

// Call pushes a sentinel return address, jumps to addr and executes
// instructions until the stack pointer returns to or above its starting
// depth or the cycle budget is exhausted. Returns the cycles consumed.
func (c *CPU) Call(addr uint16, maxCycles int) int {
	depth := c.SP
	ret := uint16(callSentinel - 1) // RTS convention: pushed address + 1
	c.push(byte(ret >> 8))
	c.push(byte(ret))
	c.PC = addr
	return c.RunUntilStackDepth(depth, maxCycles)
}

// RunUntilStackDepth executes instructions until the stack pointer is at or
// above depth or the cycle budget is exhausted. Returns the cycles consumed.
func (c *CPU) RunUntilStackDepth(depth byte, maxCycles int) int {
	cycles := 0
	for c.SP < depth && cycles < maxCycles {
		cycles += c.Step()
	}
	return cycles
}

// Step decodes and executes one instruction and returns the cycles
// consumed. Only the taken/not-taken variance of branches is modeled on
// top of the base cycle counts.
func (c *CPU) Step() int {
	if c.trace {
		c.traceInstruction()
	}

	opcode := c.fetch()

	switch opcode {
	// load
	case 0xA9: // LDA #
		c.A = c.fetch()
		c.setZN(c.A)
		return 2
	case 0xA5: // LDA zp
		c.A = c.mem.Read(c.zp())
		c.setZN(c.A)
		return 3
	case 0xB5: // LDA zp,X
		c.A = c.mem.Read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0xAD: // LDA abs
		c.A = c.mem.Read(c.abs())
		c.setZN(c.A)
		return 4
	case 0xBD: // LDA abs,X
		c.A = c.mem.Read(c.abs() + uint16(c.X))
		c.setZN(c.A)
		return 4
	case 0xB9: // LDA abs,Y
		c.A = c.mem.Read(c.abs() + uint16(c.Y))
		c.setZN(c.A)
		return 4
	case 0xA1: // LDA (zp,X)
		c.A = c.mem.Read(c.indX())
		c.setZN(c.A)
		return 6
	case 0xB1: // LDA (zp),Y
		c.A = c.mem.Read(c.indY())
		c.setZN(c.A)
		return 5

	case 0xA2: // LDX #
		c.X = c.fetch()
		c.setZN(c.X)
		return 2
	case 0xA6: // LDX zp
		c.X = c.mem.Read(c.zp())
		c.setZN(c.X)
		return 3
	case 0xB6: // LDX zp,Y
		c.X = c.mem.Read(c.zpY())
		c.setZN(c.X)
		return 4
	case 0xAE: // LDX abs
		c.X = c.mem.Read(c.abs())
		c.setZN(c.X)
		return 4
	case 0xBE: // LDX abs,Y
		c.X = c.mem.Read(c.abs() + uint16(c.Y))
		c.setZN(c.X)
		return 4

	case 0xA0: // LDY #
		c.Y = c.fetch()
		c.setZN(c.Y)
		return 2
	case 0xA4: // LDY zp
		c.Y = c.mem.Read(c.zp())
		c.setZN(c.Y)
		return 3
	case 0xB4: // LDY zp,X
		c.Y = c.mem.Read(c.zpX())
		c.setZN(c.Y)
		return 4
	case 0xAC: // LDY abs
		c.Y = c.mem.Read(c.abs())
		c.setZN(c.Y)
		return 4
	case 0xBC: // LDY abs,X
		c.Y = c.mem.Read(c.abs() + uint16(c.X))
		c.setZN(c.Y)
		return 4

	// store
	case 0x85: // STA zp
		c.mem.Write(c.zp(), c.A)
		return 3
	case 0x95: // STA zp,X
		c.mem.Write(c.zpX(), c.A)
		return 4
	case 0x8D: // STA abs
		c.mem.Write(c.abs(), c.A)
		return 4
	case 0x9D: // STA abs,X
		c.mem.Write(c.abs()+uint16(c.X), c.A)
		return 5
	case 0x99: // STA abs,Y
		c.mem.Write(c.abs()+uint16(c.Y), c.A)
		return 5
	case 0x81: // STA (zp,X)
		c.mem.Write(c.indX(), c.A)
		return 6
	case 0x91: // STA (zp),Y
		c.mem.Write(c.indY(), c.A)
		return 6
	case 0x86: // STX zp
		c.mem.Write(c.zp(), c.X)
		return 3
	case 0x96: // STX zp,Y
		c.mem.Write(c.zpY(), c.X)
		return 4
	case 0x8E: // STX abs
		c.mem.Write(c.abs(), c.X)
		return 4
	case 0x84: // STY zp
		c.mem.Write(c.zp(), c.Y)
		return 3
	case 0x94: // STY zp,X
		c.mem.Write(c.zpX(), c.Y)
		return 4
	case 0x8C: // STY abs
		c.mem.Write(c.abs(), c.Y)
		return 4

	// transfers
	case 0xAA: // TAX
		c.X = c.A
		c.setZN(c.X)
		return 2
	case 0x8A: // TXA
		c.A = c.X
		c.setZN(c.A)
		return 2
	case 0xA8: // TAY
		c.Y = c.A
		c.setZN(c.Y)
		return 2
	case 0x98: // TYA
		c.A = c.Y
		c.setZN(c.A)
		return 2
	case 0xBA: // TSX
		c.X = c.SP
		c.setZN(c.X)
		return 2
	case 0x9A: // TXS
		c.SP = c.X
		return 2

	// arithmetic
	case 0x69: // ADC #
		c.adc(c.fetch())
		return 2
	case 0x65: // ADC zp
		c.adc(c.mem.Read(c.zp()))
		return 3
	case 0x75: // ADC zp,X
		c.adc(c.mem.Read(c.zpX()))
		return 4
	case 0x6D: // ADC abs
		c.adc(c.mem.Read(c.abs()))
		return 4
	case 0x7D: // ADC abs,X
		c.adc(c.mem.Read(c.abs() + uint16(c.X)))
		return 4
	case 0x79: // ADC abs,Y
		c.adc(c.mem.Read(c.abs() + uint16(c.Y)))
		return 4
	case 0x61: // ADC (zp,X)
		c.adc(c.mem.Read(c.indX()))
		return 6
	case 0x71: // ADC (zp),Y
		c.adc(c.mem.Read(c.indY()))
		return 5

	case 0xE9: // SBC #
		c.sbc(c.fetch())
		return 2
	case 0xE5: // SBC zp
		c.sbc(c.mem.Read(c.zp()))
		return 3
	case 0xF5: // SBC zp,X
		c.sbc(c.mem.Read(c.zpX()))
		return 4
	case 0xED: // SBC abs
		c.sbc(c.mem.Read(c.abs()))
		return 4
	case 0xFD: // SBC abs,X
		c.sbc(c.mem.Read(c.abs() + uint16(c.X)))
		return 4
	case 0xF9: // SBC abs,Y
		c.sbc(c.mem.Read(c.abs() + uint16(c.Y)))
		return 4
	case 0xE1: // SBC (zp,X)
		c.sbc(c.mem.Read(c.indX()))
		return 6
	case 0xF1: // SBC (zp),Y
		c.sbc(c.mem.Read(c.indY()))
		return 5

	// logical
	case 0x29: // AND #
		c.A &= c.fetch()
		c.setZN(c.A)
		return 2
	case 0x25: // AND zp
		c.A &= c.mem.Read(c.zp())
		c.setZN(c.A)
		return 3
	case 0x35: // AND zp,X
		c.A &= c.mem.Read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0x2D: // AND abs
		c.A &= c.mem.Read(c.abs())
		c.setZN(c.A)
		return 4
	case 0x3D: // AND abs,X
		c.A &= c.mem.Read(c.abs() + uint16(c.X))
		c.setZN(c.A)
		return 4
	case 0x39: // AND abs,Y
		c.A &= c.mem.Read(c.abs() + uint16(c.Y))
		c.setZN(c.A)
		return 4
	case 0x21: // AND (zp,X)
		c.A &= c.mem.Read(c.indX())
		c.setZN(c.A)
		return 6
	case 0x31: // AND (zp),Y
		c.A &= c.mem.Read(c.indY())
		c.setZN(c.A)
		return 5

	case 0x09: // ORA #
		c.A |= c.fetch()
		c.setZN(c.A)
		return 2
	case 0x05: // ORA zp
		c.A |= c.mem.Read(c.zp())
		c.setZN(c.A)
		return 3
	case 0x15: // ORA zp,X
		c.A |= c.mem.Read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0x0D: // ORA abs
		c.A |= c.mem.Read(c.abs())
		c.setZN(c.A)
		return 4
	case 0x1D: // ORA abs,X
		c.A |= c.mem.Read(c.abs() + uint16(c.X))
		c.setZN(c.A)
		return 4
	case 0x19: // ORA abs,Y
		c.A |= c.mem.Read(c.abs() + uint16(c.Y))
		c.setZN(c.A)
		return 4
	case 0x01: // ORA (zp,X)
		c.A |= c.mem.Read(c.indX())
		c.setZN(c.A)
		return 6
	case 0x11: // ORA (zp),Y
		c.A |= c.mem.Read(c.indY())
		c.setZN(c.A)
		return 5

	case 0x49: // EOR #
		c.A ^= c.fetch()
		c.setZN(c.A)
		return 2
	case 0x45: // EOR zp
		c.A ^= c.mem.Read(c.zp())
		c.setZN(c.A)
		return 3
	case 0x55: // EOR zp,X
		c.A ^= c.mem.Read(c.zpX())
		c.setZN(c.A)
		return 4
	case 0x4D: // EOR abs
		c.A ^= c.mem.Read(c.abs())
		c.setZN(c.A)
		return 4
	case 0x5D: // EOR abs,X
		c.A ^= c.mem.Read(c.abs() + uint16(c.X))
		c.setZN(c.A)
		return 4
	case 0x59: // EOR abs,Y
		c.A ^= c.mem.Read(c.abs() + uint16(c.Y))
		c.setZN(c.A)
		return 4
	case 0x41: // EOR (zp,X)
		c.A ^= c.mem.Read(c.indX())
		c.setZN(c.A)
		return 6
	case 0x51: // EOR (zp),Y
		c.A ^= c.mem.Read(c.indY())
		c.setZN(c.A)
		return 5

	// compare
	case 0xC9: // CMP #
		c.compare(c.A, c.fetch())
		return 2
	case 0xC5: // CMP zp
		c.compare(c.A, c.mem.Read(c.zp()))
		return 3
	case 0xD5: // CMP zp,X
		c.compare(c.A, c.mem.Read(c.zpX()))
		return 4
	case 0xCD: // CMP abs
		c.compare(c.A, c.mem.Read(c.abs()))
		return 4
	case 0xDD: // CMP abs,X
		c.compare(c.A, c.mem.Read(c.abs()+uint16(c.X)))
		return 4
	case 0xD9: // CMP abs,Y
		c.compare(c.A, c.mem.Read(c.abs()+uint16(c.Y)))
		return 4
	case 0xC1: // CMP (zp,X)
		c.compare(c.A, c.mem.Read(c.indX()))
		return 6
	case 0xD1: // CMP (zp),Y
		c.compare(c.A, c.mem.Read(c.indY()))
		return 5
	case 0xE0: // CPX #
		c.compare(c.X, c.fetch())
		return 2
	case 0xE4: // CPX zp
		c.compare(c.X, c.mem.Read(c.zp()))
		return 3
	case 0xEC: // CPX abs
		c.compare(c.X, c.mem.Read(c.abs()))
		return 4
	case 0xC0: // CPY #
		c.compare(c.Y, c.fetch())
		return 2
	case 0xC4: // CPY zp
		c.compare(c.Y, c.mem.Read(c.zp()))
		return 3
	case 0xCC: // CPY abs
		c.compare(c.Y, c.mem.Read(c.abs()))
		return 4

	case 0x24: // BIT zp
		c.bit(c.mem.Read(c.zp()))
		return 3
	case 0x2C: // BIT abs
		c.bit(c.mem.Read(c.abs()))
		return 4

	// increment/decrement
	case 0xE6: // INC zp
		c.modify(c.zp(), c.inc)
		return 5
	case 0xF6: // INC zp,X
		c.modify(c.zpX(), c.inc)
		return 6
	case 0xEE: // INC abs
		c.modify(c.abs(), c.inc)
		return 6
	case 0xFE: // INC abs,X
		c.modify(c.abs()+uint16(c.X), c.inc)
		return 7
	case 0xC6: // DEC zp
		c.modify(c.zp(), c.dec)
		return 5
	case 0xD6: // DEC zp,X
		c.modify(c.zpX(), c.dec)
		return 6
	case 0xCE: // DEC abs
		c.modify(c.abs(), c.dec)
		return 6
	case 0xDE: // DEC abs,X
		c.modify(c.abs()+uint16(c.X), c.dec)
		return 7
	case 0xE8: // INX
		c.X++
		c.setZN(c.X)
		return 2
	case 0xC8: // INY
		c.Y++
		c.setZN(c.Y)
		return 2
	case 0xCA: // DEX
		c.X--
		c.setZN(c.X)
		return 2
	case 0x88: // DEY
		c.Y--
		c.setZN(c.Y)
		return 2

	// shifts and rotates
	case 0x0A: // ASL A
		c.A = c.asl(c.A)
		return 2
	case 0x06: // ASL zp
		c.modify(c.zp(), c.asl)
		return 5
	case 0x16: // ASL zp,X
		c.modify(c.zpX(), c.asl)
		return 6
	case 0x0E: // ASL abs
		c.modify(c.abs(), c.asl)
		return 6
	case 0x1E: // ASL abs,X
		c.modify(c.abs()+uint16(c.X), c.asl)
		return 7
	case 0x4A: // LSR A
		c.A = c.lsr(c.A)
		return 2
	case 0x46: // LSR zp
		c.modify(c.zp(), c.lsr)
		return 5
	case 0x56: // LSR zp,X
		c.modify(c.zpX(), c.lsr)
		return 6
	case 0x4E: // LSR abs
		c.modify(c.abs(), c.lsr)
		return 6
	case 0x5E: // LSR abs,X
		c.modify(c.abs()+uint16(c.X), c.lsr)
		return 7
	case 0x2A: // ROL A
		c.A = c.rol(c.A)
		return 2
	case 0x26: // ROL zp
		c.modify(c.zp(), c.rol)
		return 5
	case 0x36: // ROL zp,X
		c.modify(c.zpX(), c.rol)
		return 6
	case 0x2E: // ROL abs
		c.modify(c.abs(), c.rol)
		return 6
	case 0x3E: // ROL abs,X
		c.modify(c.abs()+uint16(c.X), c.rol)
		return 7
	case 0x6A: // ROR A
		c.A = c.ror(c.A)
		return 2
	case 0x66: // ROR zp
		c.modify(c.zp(), c.ror)
		return 5
	case 0x76: // ROR zp,X
		c.modify(c.zpX(), c.ror)
		return 6
	case 0x6E: // ROR abs
		c.modify(c.abs(), c.ror)
		return 6
	case 0x7E: // ROR abs,X
		c.modify(c.abs()+uint16(c.X), c.ror)
		return 7

	// jumps and subroutines
	case 0x4C: // JMP abs
		c.PC = c.abs()
		return 3
	case 0x6C: // JMP (abs)
		ptr := c.abs()
		lo := c.mem.Read(ptr)
		// page wrap defect: the high byte is fetched from the same page
		hi := c.mem.Read(ptr&0xFF00 | (ptr+1)&0x00FF)
		c.PC = uint16(hi)<<8 | uint16(lo)
		return 5
	case 0x20: // JSR abs
		addr := c.abs()
		ret := c.PC - 1
		c.push(byte(ret >> 8))
		c.push(byte(ret))
		c.PC = addr
		return 6
	case 0x60: // RTS
		lo := c.pull()
		hi := c.pull()
		c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
		return 6
	case 0x40: // RTI
		c.SR = c.pull()&^flagB | flagU
		lo := c.pull()
		hi := c.pull()
		c.PC = uint16(hi)<<8 | uint16(lo)
		return 6

	// branches
	case 0x10: // BPL
		return c.branch(c.SR&flagN == 0)
	case 0x30: // BMI
		return c.branch(c.SR&flagN != 0)
	case 0x50: // BVC
		return c.branch(c.SR&flagV == 0)
	case 0x70: // BVS
		return c.branch(c.SR&flagV != 0)
	case 0x90: // BCC
		return c.branch(c.SR&flagC == 0)
	case 0xB0: // BCS
		return c.branch(c.SR&flagC != 0)
	case 0xD0: // BNE
		return c.branch(c.SR&flagZ == 0)
	case 0xF0: // BEQ
		return c.branch(c.SR&flagZ != 0)

	// stack
	case 0x48: // PHA
		c.push(c.A)
		return 3
	case 0x68: // PLA
		c.A = c.pull()
		c.setZN(c.A)
		return 4
	case 0x08: // PHP
		c.push(c.SR | flagB | flagU)
		return 3
	case 0x28: // PLP
		c.SR = c.pull()&^flagB | flagU
		return 4

	// flags
	case 0x18: // CLC
		c.SR &^= flagC
		return 2
	case 0x38: // SEC
		c.SR |= flagC
		return 2
	case 0x58: // CLI
		c.SR &^= flagI
		return 2
	case 0x78: // SEI
		c.SR |= flagI
		return 2
	case 0xB8: // CLV
		c.SR &^= flagV
		return 2
	case 0xD8: // CLD
		c.SR &^= flagD
		return 2
	case 0xF8: // SED
		c.SR |= flagD
		return 2

	case 0xEA: // NOP
		return 2
	case 0x00: // BRK, decoded as a two byte no-op since interrupts are not modeled
		c.PC++
		return 7

	// undocumented no-ops with operand bytes, decoded to keep the
	// instruction stream in sync
	case 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		return 2
	case 0x80, 0x82, 0x89, 0xC2, 0xE2, 0x04, 0x44, 0x64:
		c.PC++
		return 3
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		c.PC++
		return 4
	case 0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		c.PC += 2
		return 4

	default:
		// remaining unofficial opcodes act as single byte no-ops
		return 2
	}
}

func (c *CPU) traceInstruction() {
	opcode := c.mem.Read(c.PC)
	def := m6502.Opcodes[opcode]
	if def.Instruction == nil {
		c.logger.Debug("Executing unofficial opcode",
			log.Hex("pc", c.PC),
			log.Hex("opcode", opcode))
		return
	}
	c.logger.Debug("Executing instruction",
		log.Hex("pc", c.PC),
		log.String("name", def.Instruction.Name))
}

func (c *CPU) fetch() byte {
	b := c.mem.Read(c.PC)
	c.PC++
	return b
}

// addressing helpers, zero page indexing wraps inside the page

func (c *CPU) zp() uint16 {
	return uint16(c.fetch())
}

func (c *CPU) zpX() uint16 {
	return uint16(c.fetch() + c.X)
}

func (c *CPU) zpY() uint16 {
	return uint16(c.fetch() + c.Y)
}

func (c *CPU) abs() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) indX() uint16 {
	z := c.fetch() + c.X
	lo := c.mem.Read(uint16(z))
	hi := c.mem.Read(uint16(z + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) indY() uint16 {
	z := c.fetch()
	lo := c.mem.Read(uint16(z))
	hi := c.mem.Read(uint16(z + 1))
	return (uint16(hi)<<8 | uint16(lo)) + uint16(c.Y)
}

func (c *CPU) push(value byte) {
	c.mem.Write(stackBase|uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pull() byte {
	c.SP++
	return c.mem.Read(stackBase | uint16(c.SP))
}

func (c *CPU) setFlag(mask byte, on bool) {
	if on {
		c.SR |= mask
	} else {
		c.SR &^= mask
	}
}

func (c *CPU) setZN(value byte) {
	c.setFlag(flagZ, value == 0)
	c.setFlag(flagN, value&0x80 != 0)
}

// adc adds with the carry flag as an implicit ninth bit. The overflow flag
// is computed from operand sign agreement. Decimal mode applies the NMOS
// BCD fixups while keeping the binary overflow behavior.
func (c *CPU) adc(value byte) {
	carry := c.SR & flagC
	sum := uint16(c.A) + uint16(value) + uint16(carry)
	result := byte(sum)
	c.setFlag(flagV, (c.A^result)&(value^result)&0x80 != 0)

	if c.SR&flagD != 0 {
		lo := c.A&0x0F + value&0x0F + carry
		if lo > 9 {
			lo += 6
		}
		hi := uint16(c.A>>4) + uint16(value>>4)
		if lo > 0x0F {
			hi++
		}
		c.setFlag(flagZ, result == 0)
		if hi > 9 {
			hi += 6
		}
		c.setFlag(flagC, hi > 0x0F)
		c.A = byte(hi)<<4 | lo&0x0F
		c.setFlag(flagN, c.A&0x80 != 0)
		return
	}

	c.setFlag(flagC, sum > 0xFF)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) sbc(value byte) {
	if c.SR&flagD != 0 {
		carry := c.SR & flagC
		diff := uint16(c.A) - uint16(value) - uint16(1-carry)
		result := byte(diff)
		c.setFlag(flagV, (c.A^value)&(c.A^result)&0x80 != 0)

		lo := int16(c.A&0x0F) - int16(value&0x0F) - int16(1-carry)
		if lo < 0 {
			lo -= 6
		}
		hi := int16(c.A>>4) - int16(value>>4)
		if lo < 0x00 {
			hi--
		}
		if hi < 0 {
			hi -= 6
		}
		c.setFlag(flagC, diff < 0x100)
		c.setZN(result)
		c.A = byte(hi&0x0F)<<4 | byte(lo&0x0F)
		return
	}

	// binary subtract is add with the operand inverted
	c.adc(^value)
}

func (c *CPU) compare(reg, value byte) {
	diff := reg - value
	c.setFlag(flagC, reg >= value)
	c.setZN(diff)
}

func (c *CPU) bit(value byte) {
	c.setFlag(flagZ, c.A&value == 0)
	c.setFlag(flagV, value&0x40 != 0)
	c.setFlag(flagN, value&0x80 != 0)
}

func (c *CPU) inc(value byte) byte {
	value++
	c.setZN(value)
	return value
}

func (c *CPU) dec(value byte) byte {
	value--
	c.setZN(value)
	return value
}

func (c *CPU) asl(value byte) byte {
	c.setFlag(flagC, value&0x80 != 0)
	value <<= 1
	c.setZN(value)
	return value
}

func (c *CPU) lsr(value byte) byte {
	c.setFlag(flagC, value&0x01 != 0)
	value >>= 1
	c.setZN(value)
	return value
}

func (c *CPU) rol(value byte) byte {
	carry := c.SR & flagC
	c.setFlag(flagC, value&0x80 != 0)
	value = value<<1 | carry
	c.setZN(value)
	return value
}

func (c *CPU) ror(value byte) byte {
	carry := c.SR & flagC
	c.setFlag(flagC, value&0x01 != 0)
	value = value>>1 | carry<<7
	c.setZN(value)
	return value
}

// modify applies fn to the byte at addr, a read-modify-write cycle.
func (c *CPU) modify(addr uint16, fn func(byte) byte) {
	c.mem.Write(addr, fn(c.mem.Read(addr)))
}

// branch consumes the signed 8-bit displacement and takes the branch when
// cond holds. The displacement is relative to the address after the branch
// instruction. Returns the cycles consumed.
func (c *CPU) branch(cond bool) int {
	offset := int8(c.fetch())
	if !cond {
		return 2
	}
	c.PC = uint16(int32(c.PC) + int32(offset))
	return 3
}
