package nes

import "github.com/golang/glog"

// CPU emulates the NES CPU, a custom 6502 made by Ricoh, generalizing the
// teacher's nes/cpu.go into a cycle-accurate interpreter (spec.md §4.2).
// References:
//   https://en.wikipedia.org/wiki/MOS_Technology_6502
//   http://www.6502.org/tutorials/6502opcodes.html
//   https://www.nesdev.org/obelisk-6502-guide/reference.html

const CPUFrequency = 1789773

type addressingMode int

const (
	implied addressingMode = iota
	accumulator
	immediate
	zeropage
	zeropageX
	zeropageY
	relative
	absolute
	absoluteX
	absoluteY
	indirect
	indirectX
	indirectY
)

// status is the 6502 P register, kept unpacked the way the teacher does so
// each flag reads as a plain bool at the call sites below.
type status struct {
	c bool // carry
	z bool // zero
	i bool // IRQ disable
	d bool // decimal - unused on NES, carried for push/pull fidelity
	b bool // break
	r bool // reserved, always set
	v bool // overflow
	n bool // negative
}

func (s *status) encode() byte {
	var res byte
	if s.c {
		res |= 1 << 0
	}
	if s.z {
		res |= 1 << 1
	}
	if s.i {
		res |= 1 << 2
	}
	if s.d {
		res |= 1 << 3
	}
	if s.b {
		res |= 1 << 4
	}
	if s.r {
		res |= 1 << 5
	}
	if s.v {
		res |= 1 << 6
	}
	if s.n {
		res |= 1 << 7
	}
	return res
}

func (s *status) decodeFrom(data byte) {
	s.c = data&(1<<0) != 0
	s.z = data&(1<<1) != 0
	s.i = data&(1<<2) != 0
	s.d = data&(1<<3) != 0
	s.b = data&(1<<4) != 0
	s.r = data&(1<<5) != 0
	s.v = data&(1<<6) != 0
	s.n = data&(1<<7) != 0
}

type instruction struct {
	mnemonic   string
	mode       addressingMode
	execute    func(addressingMode, uint16)
	size       uint16
	cycles     int
	pageCycles int // extra cycle if the effective address crosses a page
}

// CPU is the NES's 6502-derivative interpreter. It owns no collaborators
// beyond the Bus; OAMDMA and interrupt servicing are handled here because
// both need to add stall/service cycles the Bus has no concept of.
type CPU struct {
	p  status
	a  byte
	x  byte
	y  byte
	pc uint16
	s  byte

	bus          *Bus
	instructions [256]instruction

	stall    int // cycles consumed by an in-flight OAMDMA
	cycle    uint64
	branched bool // set by a taken branch instruction during execute

	nmiPending bool // edge-triggered latch, set by System.PullNMI
	irqLine    bool // level-triggered, held by mapper IRQ sources

	lastExecution string // debug trace, mirrors the teacher's field
}

// NewCPU creates a CPU wired to the given bus and performs the power-up
// reset sequence (loads PC from the reset vector at $FFFC).
func NewCPU(bus *Bus) *CPU {
	c := &CPU{bus: bus}
	c.instructions = c.buildInstructionTable()
	c.Reset()
	return c
}

// Reset reproduces the 6502's reset sequence: SP -= 3 worth of dummy pushes
// (modeled here as the documented S=0xFD post-reset value), IRQ disabled,
// PC loaded from the reset vector.
func (c *CPU) Reset() {
	c.pc = c.bus.Read16(0xFFFC)
	c.s = 0xFD
	c.p.decodeFrom(0x24)
	c.stall = 0
	c.nmiPending = false
	c.irqLine = false
}

// PullNMI latches a pending non-maskable interrupt, serviced at the next
// instruction boundary (spec.md §4.2, edge-triggered).
func (c *CPU) PullNMI() {
	c.nmiPending = true
}

// SetIRQLine raises or lowers the level-triggered IRQ line.
func (c *CPU) SetIRQLine(asserted bool) {
	c.irqLine = asserted
}

// Register accessors, exported for debugterm/ui diagnostics; the core never
// calls these itself.
func (c *CPU) PC() uint16 { return c.pc }
func (c *CPU) A() byte    { return c.a }
func (c *CPU) X() byte    { return c.x }
func (c *CPU) Y() byte    { return c.y }
func (c *CPU) SP() byte   { return c.s }

func (c *CPU) setN(x byte) { c.p.n = x&0x80 != 0 }
func (c *CPU) setZ(x byte) { c.p.z = x == 0 }

// write wraps Bus.Write, intercepting $4014 (OAMDMA) to add the correct
// stall-cycle count: 513 cycles normally, 514 if triggered on an odd CPU
// cycle (spec.md §8 scenario 6; the teacher's equivalent hardcodes 514 with
// a TODO noting the parity dependency this corrects).
func (c *CPU) write(address uint16, data byte) {
	if address == 0x4014 {
		c.bus.TriggerOAMDMA(data)
		extra := 513
		if c.cycle%2 == 1 {
			extra = 514
		}
		c.stall += extra
		return
	}
	c.bus.Write(address, data)
}

func (c *CPU) push(x byte) {
	c.write(0x100|uint16(c.s), x)
	c.s--
}

func (c *CPU) pop() byte {
	c.s++
	return c.bus.Read(0x100 | uint16(c.s))
}

func (c *CPU) push16(x uint16) {
	c.push(byte(x >> 8))
	c.push(byte(x))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// samePage reports whether a and b lie in the same 256-byte page.
func samePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}

// Step executes at most one instruction (or one stall/interrupt-service
// tick) and returns the number of CPU cycles it consumed.
func (c *CPU) Step() int {
	if c.stall > 0 {
		c.stall--
		c.cycle++
		return 1
	}
	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(0xFFFA, false)
		c.cycle += 7
		return 7
	}
	if c.irqLine && !c.p.i {
		c.serviceInterrupt(0xFFFE, false)
		c.cycle += 7
		return 7
	}

	opcode := c.bus.Read(c.pc)
	inst := c.instructions[opcode]
	if inst.mnemonic == "" {
		// Undefined/unofficial opcode: treated as a 1-byte, 2-cycle NOP.
		glog.V(1).Infof("nes: unimplemented opcode 0x%02x at pc=0x%04x", opcode, c.pc)
		c.pc++
		c.cycle += 2
		return 2
	}

	operand, pageCrossed := c.resolveOperand(inst.mode)
	c.pc += inst.size
	c.lastExecution = inst.mnemonic

	cycles := inst.cycles
	if pageCrossed && inst.mode != relative {
		cycles += inst.pageCycles
	}

	c.branched = false
	inst.execute(inst.mode, operand)
	if inst.mode == relative && c.branched {
		cycles++
		if pageCrossed {
			cycles++
		}
	}

	c.cycle += uint64(cycles)
	return cycles
}

// serviceInterrupt pushes PC and P (with B clear) and jumps to the vector at
// vectorAddr. forBRK selects the software-BRK encoding of P (B=1).
func (c *CPU) serviceInterrupt(vectorAddr uint16, forBRK bool) {
	c.push16(c.pc)
	saved := c.p
	saved.b = forBRK
	saved.r = true
	c.push(saved.encode())
	c.p.i = true
	c.pc = c.bus.Read16(vectorAddr)
}

// resolveOperand decodes the addressing mode for the instruction at c.pc,
// returning the effective address (or, for relative, the branch target) and
// whether a page boundary was crossed (for the variable-cycle modes). The
// branch-taken cycle is not returned here: Step adds it when a branch
// handler calls c.branchTo.
func (c *CPU) resolveOperand(mode addressingMode) (operand uint16, pageCrossed bool) {
	switch mode {
	case implied, accumulator:
		return 0, false
	case immediate:
		return c.pc + 1, false
	case zeropage:
		return uint16(c.bus.Read(c.pc + 1)), false
	case zeropageX:
		return uint16(c.bus.Read(c.pc+1) + c.x), false
	case zeropageY:
		return uint16(c.bus.Read(c.pc+1) + c.y), false
	case relative:
		offset := c.bus.Read(c.pc + 1)
		base := c.pc + 2
		var target uint16
		if offset < 0x80 {
			target = base + uint16(offset)
		} else {
			target = base + uint16(offset) - 0x100
		}
		return target, !samePage(base, target)
	case absolute:
		return c.bus.Read16(c.pc + 1), false
	case absoluteX:
		base := c.bus.Read16(c.pc + 1)
		eff := base + uint16(c.x)
		return eff, !samePage(base, eff)
	case absoluteY:
		base := c.bus.Read16(c.pc + 1)
		eff := base + uint16(c.y)
		return eff, !samePage(base, eff)
	case indirect:
		ptr := c.bus.Read16(c.pc + 1)
		return c.bus.Read16Wrap(ptr), false
	case indirectX:
		ptr := uint16(c.bus.Read(c.pc+1) + c.x)
		lo := c.bus.Read(ptr & 0xFF)
		hi := c.bus.Read((ptr + 1) & 0xFF)
		return uint16(hi)<<8 | uint16(lo), false
	case indirectY:
		ptr := uint16(c.bus.Read(c.pc + 1))
		lo := c.bus.Read(ptr)
		hi := c.bus.Read((ptr + 1) & 0xFF)
		base := uint16(hi)<<8 | uint16(lo)
		eff := base + uint16(c.y)
		return eff, !samePage(base, eff)
	default:
		return 0, false
	}
}

// branchTo is called by the Bxx handlers when the branch condition holds.
func (c *CPU) branchTo(target uint16) {
	c.pc = target
	c.branched = true
}
