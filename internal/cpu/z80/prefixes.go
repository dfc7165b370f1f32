package z80

// stepCB executes a CB-prefixed bit operation and returns the cycles
// consumed. The encoding is fully regular: two selector bits, a bit number
// and a register code.
func (c *CPU) stepCB() int {
	opcode := c.fetch()
	group := opcode >> 6
	bit := opcode >> 3 & 0x07
	code := opcode & 0x07

	cycles := 8
	if code == 6 {
		cycles = 15
	}

	switch group {
	case 0: // rotates and shifts
		c.writeReg(code, c.rotate(bit, c.readReg(code)))
	case 1: // BIT b,r
		v := c.readReg(code)
		c.setFlag(flagZ, v&(1<<bit) == 0)
		c.setFlag(flagPV, v&(1<<bit) == 0)
		c.setFlag(flagS, bit == 7 && v&0x80 != 0)
		c.setFlag(flagH, true)
		c.setFlag(flagN, false)
		if code == 6 {
			cycles = 12
		}
	case 2: // RES b,r
		c.writeReg(code, c.readReg(code)&^(1<<bit))
	default: // SET b,r
		c.writeReg(code, c.readReg(code)|1<<bit)
	}
	return cycles
}

// rotate applies the CB rotate/shift selected by op: RLC RRC RL RR SLA SRA
// SLL SRL. All of them feed the carry flag and set sign/zero/parity.
func (c *CPU) rotate(op, v byte) byte {
	var carry byte
	switch op {
	case 0: // RLC
		carry = v >> 7
		v = v<<1 | carry
	case 1: // RRC
		carry = v & 1
		v = v>>1 | carry<<7
	case 2: // RL
		carry = v >> 7
		v <<= 1
		if c.flag(flagC) {
			v |= 1
		}
	case 3: // RR
		carry = v & 1
		v >>= 1
		if c.flag(flagC) {
			v |= 0x80
		}
	case 4: // SLA
		carry = v >> 7
		v <<= 1
	case 5: // SRA
		carry = v & 1
		v = v&0x80 | v>>1
	case 6: // SLL, undocumented, shifts a one in
		carry = v >> 7
		v = v<<1 | 1
	default: // SRL
		carry = v & 1
		v >>= 1
	}
	c.setFlag(flagC, carry != 0)
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setSZP(v)
	return v
}

// stepED executes an ED-prefixed extended instruction and returns the
// cycles consumed. Unknown ED opcodes act as two byte no-ops.
func (c *CPU) stepED() int {
	opcode := c.fetch()

	switch opcode {
	// IN r,(C): the full BC pair is placed on the address bus
	case 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x70, 0x78:
		v := c.in(c.BC())
		if code := opcode >> 3 & 0x07; code != 6 { // IN (C) sets flags only
			c.writeReg(code, v)
		}
		c.setSZP(v)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 12

	// OUT (C),r
	case 0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x71, 0x79:
		code := opcode >> 3 & 0x07
		v := byte(0) // OUT (C),0 for the missing register slot
		if code != 6 {
			v = c.readReg(code)
		}
		c.out(c.BC(), v)
		return 12

	// 16-bit arithmetic on HL
	case 0x42, 0x52, 0x62, 0x72: // SBC HL,rr
		c.sbc16(c.pairByCode(opcode >> 4 & 0x03))
		return 15
	case 0x4A, 0x5A, 0x6A, 0x7A: // ADC HL,rr
		c.adc16(c.pairByCode(opcode >> 4 & 0x03))
		return 15

	// 16-bit absolute loads
	case 0x43, 0x53, 0x63, 0x73: // LD (nn),rr
		c.write16(c.fetch16(), c.pairByCode(opcode>>4&0x03))
		return 20
	case 0x4B, 0x5B, 0x6B, 0x7B: // LD rr,(nn)
		c.setPairByCode(opcode>>4&0x03, c.read16(c.fetch16()))
		return 20

	case 0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C: // NEG
		a := c.A
		c.A = 0
		c.A = c.sub8(a, false)
		return 8
	case 0x45, 0x55, 0x65, 0x75: // RETN
		c.IFF1 = c.IFF2
		c.PC = c.pop16()
		return 14
	case 0x4D, 0x5D, 0x6D, 0x7D: // RETI
		c.IFF1 = c.IFF2
		c.PC = c.pop16()
		return 14
	case 0x46, 0x4E, 0x66, 0x6E, 0x56, 0x76, 0x5E, 0x7E: // IM 0/1/2
		return 8

	case 0x47: // LD I,A
		c.I = c.A
		return 9
	case 0x4F: // LD R,A
		c.R = c.A
		return 9
	case 0x57: // LD A,I
		c.A = c.I
		c.setFlag(flagS, c.A&0x80 != 0)
		c.setFlag(flagZ, c.A == 0)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		c.setFlag(flagPV, c.IFF2)
		return 9
	case 0x5F: // LD A,R
		c.A = c.R
		c.setFlag(flagS, c.A&0x80 != 0)
		c.setFlag(flagZ, c.A == 0)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		c.setFlag(flagPV, c.IFF2)
		return 9

	case 0x67: // RRD
		v := c.mem.Read(c.HL())
		c.mem.Write(c.HL(), c.A<<4|v>>4)
		c.A = c.A&0xF0 | v&0x0F
		c.setSZP(c.A)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 18
	case 0x6F: // RLD
		v := c.mem.Read(c.HL())
		c.mem.Write(c.HL(), v<<4|c.A&0x0F)
		c.A = c.A&0xF0 | v>>4
		c.setSZP(c.A)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 18

	// block transfer, compare and I/O. The repeating forms execute one
	// iteration and rewind the program counter while work remains.
	case 0xA0:
		return c.blockLoad(1, false)
	case 0xA8:
		return c.blockLoad(-1, false)
	case 0xB0:
		return c.blockLoad(1, true)
	case 0xB8:
		return c.blockLoad(-1, true)
	case 0xA1:
		return c.blockCompare(1, false)
	case 0xA9:
		return c.blockCompare(-1, false)
	case 0xB1:
		return c.blockCompare(1, true)
	case 0xB9:
		return c.blockCompare(-1, true)
	case 0xA2:
		return c.blockIn(1, false)
	case 0xAA:
		return c.blockIn(-1, false)
	case 0xB2:
		return c.blockIn(1, true)
	case 0xBA:
		return c.blockIn(-1, true)
	case 0xA3:
		return c.blockOut(1, false)
	case 0xAB:
		return c.blockOut(-1, false)
	case 0xB3:
		return c.blockOut(1, true)
	case 0xBB:
		return c.blockOut(-1, true)

	default:
		return 8
	}
}

// pairByCode maps the ED encoding to BC DE HL SP.
func (c *CPU) pairByCode(code byte) uint16 {
	switch code {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setPairByCode(code byte, v uint16) {
	switch code {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

func (c *CPU) blockLoad(dir int16, repeat bool) int {
	v := c.mem.Read(c.HL())
	c.mem.Write(c.DE(), v)
	c.SetHL(c.HL() + uint16(dir))
	c.SetDE(c.DE() + uint16(dir))
	c.SetBC(c.BC() - 1)
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagPV, c.BC() != 0)
	if repeat && c.BC() != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockCompare(dir int16, repeat bool) int {
	r := c.sub8(c.mem.Read(c.HL()), false)
	carry := c.flag(flagC) // CPI leaves carry untouched
	c.SetHL(c.HL() + uint16(dir))
	c.SetBC(c.BC() - 1)
	c.setFlag(flagC, carry)
	c.setFlag(flagPV, c.BC() != 0)
	if repeat && c.BC() != 0 && r != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockIn(dir int16, repeat bool) int {
	v := c.in(c.BC())
	c.mem.Write(c.HL(), v)
	c.SetHL(c.HL() + uint16(dir))
	c.B--
	c.setFlag(flagZ, c.B == 0)
	c.setFlag(flagN, true)
	if repeat && c.B != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockOut(dir int16, repeat bool) int {
	v := c.mem.Read(c.HL())
	c.B-- // B decrements before the port value is formed
	c.out(c.BC(), v)
	c.SetHL(c.HL() + uint16(dir))
	c.setFlag(flagZ, c.B == 0)
	c.setFlag(flagN, true)
	if repeat && c.B != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

// stepIndex executes a DD- or FD-prefixed instruction with idx pointing at
// IX or IY. Only opcodes that actually involve HL change meaning under the
// prefix; everything else executes as if unprefixed, which is what the
// hardware does.
func (c *CPU) stepIndex(idx *uint16) int {
	opcode := c.fetch()

	switch opcode {
	case 0xCB: // DDCB: displacement precedes the operation selector
		return c.stepIndexCB(idx)

	case 0x21: // LD IX,nn
		*idx = c.fetch16()
		return 14
	case 0x22: // LD (nn),IX
		c.write16(c.fetch16(), *idx)
		return 20
	case 0x2A: // LD IX,(nn)
		*idx = c.read16(c.fetch16())
		return 20
	case 0x23: // INC IX
		*idx++
		return 10
	case 0x2B: // DEC IX
		*idx--
		return 10
	case 0xF9: // LD SP,IX
		c.SP = *idx
		return 10

	case 0x09: // ADD IX,BC
		*idx = c.add16(*idx, c.BC())
		return 15
	case 0x19: // ADD IX,DE
		*idx = c.add16(*idx, c.DE())
		return 15
	case 0x29: // ADD IX,IX
		*idx = c.add16(*idx, *idx)
		return 15
	case 0x39: // ADD IX,SP
		*idx = c.add16(*idx, c.SP)
		return 15

	case 0x34: // INC (IX+d)
		addr := c.indexed(idx)
		c.mem.Write(addr, c.inc8(c.mem.Read(addr)))
		return 23
	case 0x35: // DEC (IX+d)
		addr := c.indexed(idx)
		c.mem.Write(addr, c.dec8(c.mem.Read(addr)))
		return 23
	case 0x36: // LD (IX+d),n
		addr := c.indexed(idx)
		c.mem.Write(addr, c.fetch())
		return 19

	case 0x46, 0x4E, 0x56, 0x5E, 0x66, 0x6E, 0x7E: // LD r,(IX+d)
		c.writeReg(opcode>>3&0x07, c.mem.Read(c.indexed(idx)))
		return 19
	case 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77: // LD (IX+d),r
		c.mem.Write(c.indexed(idx), c.readReg(opcode&0x07))
		return 19
	case 0x86, 0x8E, 0x96, 0x9E, 0xA6, 0xAE, 0xB6, 0xBE: // ALU A,(IX+d)
		c.alu(opcode>>3&0x07, c.mem.Read(c.indexed(idx)))
		return 19

	case 0xE1: // POP IX
		*idx = c.pop16()
		return 14
	case 0xE5: // PUSH IX
		c.push16(*idx)
		return 15
	case 0xE3: // EX (SP),IX
		v := c.read16(c.SP)
		c.write16(c.SP, *idx)
		*idx = v
		return 23
	case 0xE9: // JP (IX)
		c.PC = *idx
		return 8

	default:
		// the prefix has no effect on this opcode
		return 4 + c.stepBase(opcode)
	}
}

func (c *CPU) stepIndexCB(idx *uint16) int {
	offset := int8(c.fetch())
	opcode := c.fetch()
	addr := uint16(int32(*idx) + int32(offset))
	group := opcode >> 6
	bit := opcode >> 3 & 0x07

	switch group {
	case 0:
		c.mem.Write(addr, c.rotate(bit, c.mem.Read(addr)))
		return 23
	case 1: // BIT b,(IX+d)
		v := c.mem.Read(addr)
		c.setFlag(flagZ, v&(1<<bit) == 0)
		c.setFlag(flagPV, v&(1<<bit) == 0)
		c.setFlag(flagS, bit == 7 && v&0x80 != 0)
		c.setFlag(flagH, true)
		c.setFlag(flagN, false)
		return 20
	case 2:
		c.mem.Write(addr, c.mem.Read(addr)&^(1<<bit))
		return 23
	default:
		c.mem.Write(addr, c.mem.Read(addr)|1<<bit)
		return 23
	}
}

// indexed consumes the displacement byte and forms IX+d.
func (c *CPU) indexed(idx *uint16) uint16 {
	offset := int8(c.fetch())
	return uint16(int32(*idx) + int32(offset))
}
