package z80

// stepBase executes an unprefixed opcode and returns the cycles consumed.
// The two regular encoding blocks are range decoded, everything else is
// dispatched individually.
func (c *CPU) stepBase(opcode byte) int {
	// LD r,r' block
	if opcode >= 0x40 && opcode <= 0x7F && opcode != 0x76 {
		dest := opcode >> 3 & 0x07
		src := opcode & 0x07
		c.writeReg(dest, c.readReg(src))
		if dest == 6 || src == 6 {
			return 7
		}
		return 4
	}

	// ALU A,r block
	if opcode >= 0x80 && opcode <= 0xBF {
		op := opcode >> 3 & 0x07
		src := opcode & 0x07
		c.alu(op, c.readReg(src))
		if src == 6 {
			return 7
		}
		return 4
	}

	switch opcode {
	case 0x00: // NOP
		return 4
	case 0x76: // HALT
		c.Halted = true
		return 4

	// 8-bit immediate loads
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E:
		c.writeReg(opcode>>3&0x07, c.fetch())
		return 7
	case 0x36: // LD (HL),n
		c.mem.Write(c.HL(), c.fetch())
		return 10

	// 16-bit immediate loads
	case 0x01:
		c.SetBC(c.fetch16())
		return 10
	case 0x11:
		c.SetDE(c.fetch16())
		return 10
	case 0x21:
		c.SetHL(c.fetch16())
		return 10
	case 0x31:
		c.SP = c.fetch16()
		return 10

	// indirect accumulator loads
	case 0x02: // LD (BC),A
		c.mem.Write(c.BC(), c.A)
		return 7
	case 0x0A: // LD A,(BC)
		c.A = c.mem.Read(c.BC())
		return 7
	case 0x12: // LD (DE),A
		c.mem.Write(c.DE(), c.A)
		return 7
	case 0x1A: // LD A,(DE)
		c.A = c.mem.Read(c.DE())
		return 7
	case 0x32: // LD (nn),A
		c.mem.Write(c.fetch16(), c.A)
		return 13
	case 0x3A: // LD A,(nn)
		c.A = c.mem.Read(c.fetch16())
		return 13
	case 0x22: // LD (nn),HL
		c.write16(c.fetch16(), c.HL())
		return 16
	case 0x2A: // LD HL,(nn)
		c.SetHL(c.read16(c.fetch16()))
		return 16
	case 0xF9: // LD SP,HL
		c.SP = c.HL()
		return 6

	// 16-bit increment/decrement, no flags
	case 0x03:
		c.SetBC(c.BC() + 1)
		return 6
	case 0x13:
		c.SetDE(c.DE() + 1)
		return 6
	case 0x23:
		c.SetHL(c.HL() + 1)
		return 6
	case 0x33:
		c.SP++
		return 6
	case 0x0B:
		c.SetBC(c.BC() - 1)
		return 6
	case 0x1B:
		c.SetDE(c.DE() - 1)
		return 6
	case 0x2B:
		c.SetHL(c.HL() - 1)
		return 6
	case 0x3B:
		c.SP--
		return 6

	// 8-bit increment/decrement
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C:
		code := opcode >> 3 & 0x07
		c.writeReg(code, c.inc8(c.readReg(code)))
		return 4
	case 0x34: // INC (HL)
		addr := c.HL()
		c.mem.Write(addr, c.inc8(c.mem.Read(addr)))
		return 11
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D:
		code := opcode >> 3 & 0x07
		c.writeReg(code, c.dec8(c.readReg(code)))
		return 4
	case 0x35: // DEC (HL)
		addr := c.HL()
		c.mem.Write(addr, c.dec8(c.mem.Read(addr)))
		return 11

	// 16-bit add
	case 0x09:
		c.SetHL(c.add16(c.HL(), c.BC()))
		return 11
	case 0x19:
		c.SetHL(c.add16(c.HL(), c.DE()))
		return 11
	case 0x29:
		c.SetHL(c.add16(c.HL(), c.HL()))
		return 11
	case 0x39:
		c.SetHL(c.add16(c.HL(), c.SP))
		return 11

	// ALU immediate
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		c.alu(opcode>>3&0x07, c.fetch())
		return 7

	// accumulator rotates, carry only
	case 0x07: // RLCA
		carry := c.A >> 7
		c.A = c.A<<1 | carry
		c.setFlag(flagC, carry != 0)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 4
	case 0x0F: // RRCA
		carry := c.A & 1
		c.A = c.A>>1 | carry<<7
		c.setFlag(flagC, carry != 0)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 4
	case 0x17: // RLA
		carry := byte(0)
		if c.flag(flagC) {
			carry = 1
		}
		c.setFlag(flagC, c.A&0x80 != 0)
		c.A = c.A<<1 | carry
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 4
	case 0x1F: // RRA
		carry := byte(0)
		if c.flag(flagC) {
			carry = 0x80
		}
		c.setFlag(flagC, c.A&1 != 0)
		c.A = c.A>>1 | carry
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 4

	case 0x27: // DAA
		c.daa()
		return 4
	case 0x2F: // CPL
		c.A = ^c.A
		c.setFlag(flagH, true)
		c.setFlag(flagN, true)
		return 4
	case 0x37: // SCF
		c.setFlag(flagC, true)
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		return 4
	case 0x3F: // CCF
		c.setFlag(flagH, c.flag(flagC))
		c.setFlag(flagC, !c.flag(flagC))
		c.setFlag(flagN, false)
		return 4

	// relative jumps and the table stepping loop instruction
	case 0x18: // JR e
		offset := int8(c.fetch())
		c.PC = uint16(int32(c.PC) + int32(offset))
		return 12
	case 0x20, 0x28, 0x30, 0x38: // JR cc,e
		offset := int8(c.fetch())
		if c.condition(opcode >> 3 & 0x03) {
			c.PC = uint16(int32(c.PC) + int32(offset))
			return 12
		}
		return 7
	case 0x10: // DJNZ e
		offset := int8(c.fetch())
		c.B--
		if c.B != 0 {
			c.PC = uint16(int32(c.PC) + int32(offset))
			return 13
		}
		return 8

	// absolute jumps
	case 0xC3: // JP nn
		c.PC = c.fetch16()
		return 10
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA: // JP cc,nn
		addr := c.fetch16()
		if c.condition(opcode >> 3 & 0x07) {
			c.PC = addr
		}
		return 10
	case 0xE9: // JP (HL)
		c.PC = c.HL()
		return 4

	// calls and returns
	case 0xCD: // CALL nn
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 17
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC: // CALL cc,nn
		addr := c.fetch16()
		if c.condition(opcode >> 3 & 0x07) {
			c.push16(c.PC)
			c.PC = addr
			return 17
		}
		return 10
	case 0xC9: // RET
		c.PC = c.pop16()
		return 10
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8: // RET cc
		if c.condition(opcode >> 3 & 0x07) {
			c.PC = c.pop16()
			return 11
		}
		return 5
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST
		c.push16(c.PC)
		c.PC = uint16(opcode & 0x38)
		return 11

	// stack
	case 0xC5:
		c.push16(c.BC())
		return 11
	case 0xD5:
		c.push16(c.DE())
		return 11
	case 0xE5:
		c.push16(c.HL())
		return 11
	case 0xF5:
		c.push16(c.AF())
		return 11
	case 0xC1:
		c.SetBC(c.pop16())
		return 10
	case 0xD1:
		c.SetDE(c.pop16())
		return 10
	case 0xE1:
		c.SetHL(c.pop16())
		return 10
	case 0xF1:
		c.SetAF(c.pop16())
		return 10

	// exchanges
	case 0x08: // EX AF,AF'
		c.exAF()
		return 4
	case 0xD9: // EXX
		c.exx()
		return 4
	case 0xEB: // EX DE,HL
		de := c.DE()
		c.SetDE(c.HL())
		c.SetHL(de)
		return 4
	case 0xE3: // EX (SP),HL
		v := c.read16(c.SP)
		c.write16(c.SP, c.HL())
		c.SetHL(v)
		return 19

	// port I/O, port high byte comes from the accumulator
	case 0xD3: // OUT (n),A
		c.out(uint16(c.A)<<8|uint16(c.fetch()), c.A)
		return 11
	case 0xDB: // IN A,(n)
		c.A = c.in(uint16(c.A)<<8 | uint16(c.fetch()))
		return 11

	case 0xF3: // DI
		c.IFF1 = false
		c.IFF2 = false
		return 4
	case 0xFB: // EI
		c.IFF1 = true
		c.IFF2 = true
		return 4

	default:
		// unknown opcodes consume only themselves
		return 4
	}
}

// daa adjusts the accumulator after BCD arithmetic, using the N and H
// flags to undo binary carries.
func (c *CPU) daa() {
	adjust := byte(0)
	carry := c.flag(flagC)
	if c.flag(flagH) || c.A&0x0F > 9 {
		adjust |= 0x06
	}
	if carry || c.A > 0x99 {
		adjust |= 0x60
		carry = true
	}
	half := c.A
	if c.flag(flagN) {
		c.setFlag(flagH, c.flag(flagH) && half&0x0F < 6)
		c.A -= adjust
	} else {
		c.setFlag(flagH, half&0x0F > 9)
		c.A += adjust
	}
	c.setFlag(flagC, carry)
	c.setSZP(c.A)
}
