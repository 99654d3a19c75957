package nes

// PPUBus is the PPU's own address decoder: pattern tables live on the
// cartridge, nametables are mirrored through it per the header's mirroring
// flag. Addresses at or above $3F00 (palette RAM) are never forwarded here —
// the PPU keeps palette memory internally (spec.md §4.4/§6).
type PPUBus struct {
	cartridge ROM
}

// NewPPUBus creates the PPU-side Bus.
func NewPPUBus(cartridge ROM) *PPUBus {
	return &PPUBus{cartridge}
}

// nametableIndex splits a $2000-$3EFF PPU address into (logical nametable,
// offset within it).
func nametableIndex(address uint16) (int, uint16) {
	a := (address - 0x2000) % 0x1000
	return int(a / 0x400), a % 0x400
}

func (b *PPUBus) Read(address uint16) byte {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return b.cartridge.PatternRead(address)
	default: // $2000-$3EFF, including the $3000-$3EFF mirror of $2000-$2EFF
		table, offset := nametableIndex(address)
		return b.cartridge.NametableRead(table, offset)
	}
}

func (b *PPUBus) Write(address uint16, value byte) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.cartridge.PatternWrite(address, value)
	default:
		table, offset := nametableIndex(address)
		b.cartridge.NametableWrite(table, offset, value)
	}
}
