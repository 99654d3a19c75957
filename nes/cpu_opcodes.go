package nes

// buildInstructionTable lays out all 151 documented 6502 opcodes. Unofficial
// opcodes are left as zero-value entries (empty mnemonic), which Step runs
// as a 1-byte, 2-cycle NOP.
func (c *CPU) buildInstructionTable() [256]instruction {
	var t [256]instruction
	set := func(op byte, mnemonic string, mode addressingMode, fn func(addressingMode, uint16), size uint16, cycles, pageCycles int) {
		t[op] = instruction{mnemonic, mode, fn, size, cycles, pageCycles}
	}

	set(0x00, "BRK", implied, c.brk, 2, 7, 0)
	set(0x01, "ORA", indirectX, c.ora, 2, 6, 0)
	set(0x05, "ORA", zeropage, c.ora, 2, 3, 0)
	set(0x06, "ASL", zeropage, c.asl, 2, 5, 0)
	set(0x08, "PHP", implied, c.php, 1, 3, 0)
	set(0x09, "ORA", immediate, c.ora, 2, 2, 0)
	set(0x0A, "ASL", accumulator, c.asl, 1, 2, 0)
	set(0x0D, "ORA", absolute, c.ora, 3, 4, 0)
	set(0x0E, "ASL", absolute, c.asl, 3, 6, 0)

	set(0x10, "BPL", relative, c.bpl, 2, 2, 0)
	set(0x11, "ORA", indirectY, c.ora, 2, 5, 1)
	set(0x15, "ORA", zeropageX, c.ora, 2, 4, 0)
	set(0x16, "ASL", zeropageX, c.asl, 2, 6, 0)
	set(0x18, "CLC", implied, c.clc, 1, 2, 0)
	set(0x19, "ORA", absoluteY, c.ora, 3, 4, 1)
	set(0x1D, "ORA", absoluteX, c.ora, 3, 4, 1)
	set(0x1E, "ASL", absoluteX, c.asl, 3, 7, 0)

	set(0x20, "JSR", absolute, c.jsr, 3, 6, 0)
	set(0x21, "AND", indirectX, c.and, 2, 6, 0)
	set(0x24, "BIT", zeropage, c.bit, 2, 3, 0)
	set(0x25, "AND", zeropage, c.and, 2, 3, 0)
	set(0x26, "ROL", zeropage, c.rol, 2, 5, 0)
	set(0x28, "PLP", implied, c.plp, 1, 4, 0)
	set(0x29, "AND", immediate, c.and, 2, 2, 0)
	set(0x2A, "ROL", accumulator, c.rol, 1, 2, 0)
	set(0x2C, "BIT", absolute, c.bit, 3, 4, 0)
	set(0x2D, "AND", absolute, c.and, 3, 4, 0)
	set(0x2E, "ROL", absolute, c.rol, 3, 6, 0)

	set(0x30, "BMI", relative, c.bmi, 2, 2, 0)
	set(0x31, "AND", indirectY, c.and, 2, 5, 1)
	set(0x35, "AND", zeropageX, c.and, 2, 4, 0)
	set(0x36, "ROL", zeropageX, c.rol, 2, 6, 0)
	set(0x38, "SEC", implied, c.sec, 1, 2, 0)
	set(0x39, "AND", absoluteY, c.and, 3, 4, 1)
	set(0x3D, "AND", absoluteX, c.and, 3, 4, 1)
	set(0x3E, "ROL", absoluteX, c.rol, 3, 7, 0)

	set(0x40, "RTI", implied, c.rti, 1, 6, 0)
	set(0x41, "EOR", indirectX, c.eor, 2, 6, 0)
	set(0x45, "EOR", zeropage, c.eor, 2, 3, 0)
	set(0x46, "LSR", zeropage, c.lsr, 2, 5, 0)
	set(0x48, "PHA", implied, c.pha, 1, 3, 0)
	set(0x49, "EOR", immediate, c.eor, 2, 2, 0)
	set(0x4A, "LSR", accumulator, c.lsr, 1, 2, 0)
	set(0x4C, "JMP", absolute, c.jmp, 3, 3, 0)
	set(0x4D, "EOR", absolute, c.eor, 3, 4, 0)
	set(0x4E, "LSR", absolute, c.lsr, 3, 6, 0)

	set(0x50, "BVC", relative, c.bvc, 2, 2, 0)
	set(0x51, "EOR", indirectY, c.eor, 2, 5, 1)
	set(0x55, "EOR", zeropageX, c.eor, 2, 4, 0)
	set(0x56, "LSR", zeropageX, c.lsr, 2, 6, 0)
	set(0x58, "CLI", implied, c.cli, 1, 2, 0)
	set(0x59, "EOR", absoluteY, c.eor, 3, 4, 1)
	set(0x5D, "EOR", absoluteX, c.eor, 3, 4, 1)
	set(0x5E, "LSR", absoluteX, c.lsr, 3, 7, 0)

	set(0x60, "RTS", implied, c.rts, 1, 6, 0)
	set(0x61, "ADC", indirectX, c.adc, 2, 6, 0)
	set(0x65, "ADC", zeropage, c.adc, 2, 3, 0)
	set(0x66, "ROR", zeropage, c.ror, 2, 5, 0)
	set(0x68, "PLA", implied, c.pla, 1, 4, 0)
	set(0x69, "ADC", immediate, c.adc, 2, 2, 0)
	set(0x6A, "ROR", accumulator, c.ror, 1, 2, 0)
	set(0x6C, "JMP", indirect, c.jmp, 3, 5, 0)
	set(0x6D, "ADC", absolute, c.adc, 3, 4, 0)
	set(0x6E, "ROR", absolute, c.ror, 3, 6, 0)

	set(0x70, "BVS", relative, c.bvs, 2, 2, 0)
	set(0x71, "ADC", indirectY, c.adc, 2, 5, 1)
	set(0x75, "ADC", zeropageX, c.adc, 2, 4, 0)
	set(0x76, "ROR", zeropageX, c.ror, 2, 6, 0)
	set(0x78, "SEI", implied, c.sei, 1, 2, 0)
	set(0x79, "ADC", absoluteY, c.adc, 3, 4, 1)
	set(0x7D, "ADC", absoluteX, c.adc, 3, 4, 1)
	set(0x7E, "ROR", absoluteX, c.ror, 3, 7, 0)

	set(0x81, "STA", indirectX, c.sta, 2, 6, 0)
	set(0x84, "STY", zeropage, c.sty, 2, 3, 0)
	set(0x85, "STA", zeropage, c.sta, 2, 3, 0)
	set(0x86, "STX", zeropage, c.stx, 2, 3, 0)
	set(0x88, "DEY", implied, c.dey, 1, 2, 0)
	set(0x8A, "TXA", implied, c.txa, 1, 2, 0)
	set(0x8C, "STY", absolute, c.sty, 3, 4, 0)
	set(0x8D, "STA", absolute, c.sta, 3, 4, 0)
	set(0x8E, "STX", absolute, c.stx, 3, 4, 0)

	set(0x90, "BCC", relative, c.bcc, 2, 2, 0)
	set(0x91, "STA", indirectY, c.sta, 2, 6, 0)
	set(0x94, "STY", zeropageX, c.sty, 2, 4, 0)
	set(0x95, "STA", zeropageX, c.sta, 2, 4, 0)
	set(0x96, "STX", zeropageY, c.stx, 2, 4, 0)
	set(0x98, "TYA", implied, c.tya, 1, 2, 0)
	set(0x99, "STA", absoluteY, c.sta, 3, 5, 0)
	set(0x9A, "TXS", implied, c.txs, 1, 2, 0)
	set(0x9D, "STA", absoluteX, c.sta, 3, 5, 0)

	set(0xA0, "LDY", immediate, c.ldy, 2, 2, 0)
	set(0xA1, "LDA", indirectX, c.lda, 2, 6, 0)
	set(0xA2, "LDX", immediate, c.ldx, 2, 2, 0)
	set(0xA4, "LDY", zeropage, c.ldy, 2, 3, 0)
	set(0xA5, "LDA", zeropage, c.lda, 2, 3, 0)
	set(0xA6, "LDX", zeropage, c.ldx, 2, 3, 0)
	set(0xA8, "TAY", implied, c.tay, 1, 2, 0)
	set(0xA9, "LDA", immediate, c.lda, 2, 2, 0)
	set(0xAA, "TAX", implied, c.tax, 1, 2, 0)
	set(0xAC, "LDY", absolute, c.ldy, 3, 4, 0)
	set(0xAD, "LDA", absolute, c.lda, 3, 4, 0)
	set(0xAE, "LDX", absolute, c.ldx, 3, 4, 0)

	set(0xB0, "BCS", relative, c.bcs, 2, 2, 0)
	set(0xB1, "LDA", indirectY, c.lda, 2, 5, 1)
	set(0xB4, "LDY", zeropageX, c.ldy, 2, 4, 0)
	set(0xB5, "LDA", zeropageX, c.lda, 2, 4, 0)
	set(0xB6, "LDX", zeropageY, c.ldx, 2, 4, 0)
	set(0xB8, "CLV", implied, c.clv, 1, 2, 0)
	set(0xB9, "LDA", absoluteY, c.lda, 3, 4, 1)
	set(0xBA, "TSX", implied, c.tsx, 1, 2, 0)
	set(0xBC, "LDY", absoluteX, c.ldy, 3, 4, 1)
	set(0xBD, "LDA", absoluteX, c.lda, 3, 4, 1)
	set(0xBE, "LDX", absoluteY, c.ldx, 3, 4, 1)

	set(0xC0, "CPY", immediate, c.cpy, 2, 2, 0)
	set(0xC1, "CMP", indirectX, c.cmp, 2, 6, 0)
	set(0xC4, "CPY", zeropage, c.cpy, 2, 3, 0)
	set(0xC5, "CMP", zeropage, c.cmp, 2, 3, 0)
	set(0xC6, "DEC", zeropage, c.dec, 2, 5, 0)
	set(0xC8, "INY", implied, c.iny, 1, 2, 0)
	set(0xC9, "CMP", immediate, c.cmp, 2, 2, 0)
	set(0xCA, "DEX", implied, c.dex, 1, 2, 0)
	set(0xCC, "CPY", absolute, c.cpy, 3, 4, 0)
	set(0xCD, "CMP", absolute, c.cmp, 3, 4, 0)
	set(0xCE, "DEC", absolute, c.dec, 3, 6, 0)

	set(0xD0, "BNE", relative, c.bne, 2, 2, 0)
	set(0xD1, "CMP", indirectY, c.cmp, 2, 5, 1)
	set(0xD5, "CMP", zeropageX, c.cmp, 2, 4, 0)
	set(0xD6, "DEC", zeropageX, c.dec, 2, 6, 0)
	set(0xD8, "CLD", implied, c.cld, 1, 2, 0)
	set(0xD9, "CMP", absoluteY, c.cmp, 3, 4, 1)
	set(0xDD, "CMP", absoluteX, c.cmp, 3, 4, 1)
	set(0xDE, "DEC", absoluteX, c.dec, 3, 7, 0)

	set(0xE0, "CPX", immediate, c.cpx, 2, 2, 0)
	set(0xE1, "SBC", indirectX, c.sbc, 2, 6, 0)
	set(0xE4, "CPX", zeropage, c.cpx, 2, 3, 0)
	set(0xE5, "SBC", zeropage, c.sbc, 2, 3, 0)
	set(0xE6, "INC", zeropage, c.inc, 2, 5, 0)
	set(0xE8, "INX", implied, c.inx, 1, 2, 0)
	set(0xE9, "SBC", immediate, c.sbc, 2, 2, 0)
	set(0xEA, "NOP", implied, c.nop, 1, 2, 0)
	set(0xEC, "CPX", absolute, c.cpx, 3, 4, 0)
	set(0xED, "SBC", absolute, c.sbc, 3, 4, 0)
	set(0xEE, "INC", absolute, c.inc, 3, 6, 0)

	set(0xF0, "BEQ", relative, c.beq, 2, 2, 0)
	set(0xF1, "SBC", indirectY, c.sbc, 2, 5, 1)
	set(0xF5, "SBC", zeropageX, c.sbc, 2, 4, 0)
	set(0xF6, "INC", zeropageX, c.inc, 2, 6, 0)
	set(0xF8, "SED", implied, c.sed, 1, 2, 0)
	set(0xF9, "SBC", absoluteY, c.sbc, 3, 4, 1)
	set(0xFD, "SBC", absoluteX, c.sbc, 3, 4, 1)
	set(0xFE, "INC", absoluteX, c.inc, 3, 7, 0)

	return t
}

func (c *CPU) ora(mode addressingMode, operand uint16) {
	c.a |= c.bus.Read(operand)
	c.setN(c.a)
	c.setZ(c.a)
}

func (c *CPU) and(mode addressingMode, operand uint16) {
	c.a &= c.bus.Read(operand)
	c.setN(c.a)
	c.setZ(c.a)
}

func (c *CPU) eor(mode addressingMode, operand uint16) {
	c.a ^= c.bus.Read(operand)
	c.setN(c.a)
	c.setZ(c.a)
}

func (c *CPU) asl(mode addressingMode, operand uint16) {
	if mode == accumulator {
		c.p.c = c.a&0x80 != 0
		c.a <<= 1
		c.setN(c.a)
		c.setZ(c.a)
		return
	}
	x := c.bus.Read(operand)
	c.p.c = x&0x80 != 0
	x <<= 1
	c.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) lsr(mode addressingMode, operand uint16) {
	if mode == accumulator {
		c.p.c = c.a&0x01 != 0
		c.a >>= 1
		c.setN(c.a)
		c.setZ(c.a)
		return
	}
	x := c.bus.Read(operand)
	c.p.c = x&0x01 != 0
	x >>= 1
	c.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) rol(mode addressingMode, operand uint16) {
	var oldCarry byte
	if c.p.c {
		oldCarry = 1
	}
	if mode == accumulator {
		c.p.c = c.a&0x80 != 0
		c.a = c.a<<1 | oldCarry
		c.setN(c.a)
		c.setZ(c.a)
		return
	}
	x := c.bus.Read(operand)
	c.p.c = x&0x80 != 0
	x = x<<1 | oldCarry
	c.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) ror(mode addressingMode, operand uint16) {
	var oldCarry byte
	if c.p.c {
		oldCarry = 0x80
	}
	if mode == accumulator {
		c.p.c = c.a&0x01 != 0
		c.a = c.a>>1 | oldCarry
		c.setN(c.a)
		c.setZ(c.a)
		return
	}
	x := c.bus.Read(operand)
	c.p.c = x&0x01 != 0
	x = x>>1 | oldCarry
	c.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

// adc adds with carry, computing the overflow flag from the sign bits of
// the two operands versus the result (spec.md §8 scenario 2 ADC overflow).
func (c *CPU) adc(mode addressingMode, operand uint16) {
	a := c.a
	m := c.bus.Read(operand)
	var carry uint16
	if c.p.c {
		carry = 1
	}
	sum := uint16(a) + uint16(m) + carry
	result := byte(sum)
	c.p.c = sum > 0xFF
	c.p.v = (a^result)&(m^result)&0x80 != 0
	c.a = result
	c.setN(c.a)
	c.setZ(c.a)
}

// sbc subtracts with carry via the standard adc(~m) identity, avoiding a
// second, easy-to-get-wrong overflow derivation.
func (c *CPU) sbc(mode addressingMode, operand uint16) {
	m := c.bus.Read(operand)
	a := c.a
	var carry uint16
	if c.p.c {
		carry = 1
	}
	notM := ^m
	sum := uint16(a) + uint16(notM) + carry
	result := byte(sum)
	c.p.c = sum > 0xFF
	c.p.v = (a^result)&(notM^result)&0x80 != 0
	c.a = result
	c.setN(c.a)
	c.setZ(c.a)
}

// cmp/cpx/cpy compare via unsigned subtraction: carry set means the
// register was >= the operand.
func (c *CPU) cmp(mode addressingMode, operand uint16) {
	data := c.bus.Read(operand)
	c.p.c = c.a >= data
	result := c.a - data
	c.setN(result)
	c.setZ(result)
}

func (c *CPU) cpx(mode addressingMode, operand uint16) {
	data := c.bus.Read(operand)
	c.p.c = c.x >= data
	result := c.x - data
	c.setN(result)
	c.setZ(result)
}

func (c *CPU) cpy(mode addressingMode, operand uint16) {
	data := c.bus.Read(operand)
	c.p.c = c.y >= data
	result := c.y - data
	c.setN(result)
	c.setZ(result)
}

func (c *CPU) bit(mode addressingMode, operand uint16) {
	x := c.bus.Read(operand)
	c.p.z = c.a&x == 0
	c.p.v = x&0x40 != 0
	c.p.n = x&0x80 != 0
}

func (c *CPU) inc(mode addressingMode, operand uint16) {
	x := c.bus.Read(operand) + 1
	c.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) dec(mode addressingMode, operand uint16) {
	x := c.bus.Read(operand) - 1
	c.write(operand, x)
	c.setN(x)
	c.setZ(x)
}

func (c *CPU) inx(mode addressingMode, operand uint16) { c.x++; c.setN(c.x); c.setZ(c.x) }
func (c *CPU) iny(mode addressingMode, operand uint16) { c.y++; c.setN(c.y); c.setZ(c.y) }
func (c *CPU) dex(mode addressingMode, operand uint16) { c.x--; c.setN(c.x); c.setZ(c.x) }
func (c *CPU) dey(mode addressingMode, operand uint16) { c.y--; c.setN(c.y); c.setZ(c.y) }

func (c *CPU) lda(mode addressingMode, operand uint16) {
	c.a = c.bus.Read(operand)
	c.setN(c.a)
	c.setZ(c.a)
}

func (c *CPU) ldx(mode addressingMode, operand uint16) {
	c.x = c.bus.Read(operand)
	c.setN(c.x)
	c.setZ(c.x)
}

func (c *CPU) ldy(mode addressingMode, operand uint16) {
	c.y = c.bus.Read(operand)
	c.setN(c.y)
	c.setZ(c.y)
}

func (c *CPU) sta(mode addressingMode, operand uint16) { c.write(operand, c.a) }
func (c *CPU) stx(mode addressingMode, operand uint16) { c.write(operand, c.x) }
func (c *CPU) sty(mode addressingMode, operand uint16) { c.write(operand, c.y) }

func (c *CPU) tax(mode addressingMode, operand uint16) { c.x = c.a; c.setN(c.x); c.setZ(c.x) }
func (c *CPU) tay(mode addressingMode, operand uint16) { c.y = c.a; c.setN(c.y); c.setZ(c.y) }
func (c *CPU) txa(mode addressingMode, operand uint16) { c.a = c.x; c.setN(c.a); c.setZ(c.a) }
func (c *CPU) tya(mode addressingMode, operand uint16) { c.a = c.y; c.setN(c.a); c.setZ(c.a) }
func (c *CPU) tsx(mode addressingMode, operand uint16) { c.x = c.s; c.setN(c.x); c.setZ(c.x) }
func (c *CPU) txs(mode addressingMode, operand uint16) { c.s = c.x }

func (c *CPU) pha(mode addressingMode, operand uint16) { c.push(c.a) }
func (c *CPU) pla(mode addressingMode, operand uint16) {
	c.a = c.pop()
	c.setN(c.a)
	c.setZ(c.a)
}

// php pushes P with B and the reserved bit forced to 1, per 6502 convention.
func (c *CPU) php(mode addressingMode, operand uint16) {
	saved := c.p
	saved.b = true
	saved.r = true
	c.push(saved.encode())
}

// plp restores P from the stack, discarding the pulled B and reserved bits
// (those exist only in the pushed byte, never as real CPU state).
func (c *CPU) plp(mode addressingMode, operand uint16) {
	c.p.decodeFrom(c.pop())
	c.p.b = false
	c.p.r = true
}

func (c *CPU) clc(mode addressingMode, operand uint16) { c.p.c = false }
func (c *CPU) sec(mode addressingMode, operand uint16) { c.p.c = true }
func (c *CPU) cli(mode addressingMode, operand uint16) { c.p.i = false }
func (c *CPU) sei(mode addressingMode, operand uint16) { c.p.i = true }
func (c *CPU) clv(mode addressingMode, operand uint16) { c.p.v = false }

// cld/sed are no-ops on the NES 2A03, which lacks decimal mode, but still
// track d so a pushed/pulled P round-trips bit-exactly.
func (c *CPU) cld(mode addressingMode, operand uint16) { c.p.d = false }
func (c *CPU) sed(mode addressingMode, operand uint16) { c.p.d = true }

func (c *CPU) nop(mode addressingMode, operand uint16) {}

func (c *CPU) jmp(mode addressingMode, operand uint16) { c.pc = operand }

func (c *CPU) jsr(mode addressingMode, operand uint16) {
	c.push16(c.pc - 1)
	c.pc = operand
}

func (c *CPU) rts(mode addressingMode, operand uint16) {
	c.pc = c.pop16() + 1
}

// brk is a software interrupt: it behaves like serviceInterrupt but with B
// set in the pushed status and PC already advanced past the padding byte
// (size=2 in the opcode table resolves the classic "BRK pushes PC+2" open
// question per spec.md §9).
func (c *CPU) brk(mode addressingMode, operand uint16) {
	c.push16(c.pc)
	saved := c.p
	saved.b = true
	saved.r = true
	c.push(saved.encode())
	c.p.i = true
	c.pc = c.bus.Read16(0xFFFE)
}

func (c *CPU) rti(mode addressingMode, operand uint16) {
	c.p.decodeFrom(c.pop())
	c.p.b = false
	c.p.r = true
	c.pc = c.pop16()
}

func (c *CPU) bpl(mode addressingMode, operand uint16) {
	if !c.p.n {
		c.branchTo(operand)
	}
}
func (c *CPU) bmi(mode addressingMode, operand uint16) {
	if c.p.n {
		c.branchTo(operand)
	}
}
func (c *CPU) bvc(mode addressingMode, operand uint16) {
	if !c.p.v {
		c.branchTo(operand)
	}
}
func (c *CPU) bvs(mode addressingMode, operand uint16) {
	if c.p.v {
		c.branchTo(operand)
	}
}
func (c *CPU) bcc(mode addressingMode, operand uint16) {
	if !c.p.c {
		c.branchTo(operand)
	}
}
func (c *CPU) bcs(mode addressingMode, operand uint16) {
	if c.p.c {
		c.branchTo(operand)
	}
}
func (c *CPU) bne(mode addressingMode, operand uint16) {
	if !c.p.z {
		c.branchTo(operand)
	}
}
func (c *CPU) beq(mode addressingMode, operand uint16) {
	if c.p.z {
		c.branchTo(operand)
	}
}
