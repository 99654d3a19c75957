package nes

import "github.com/golang/glog"

// Bus is the CPU's memory-mapped address decoder (spec.md §4.1). It owns no
// state beyond pointers to collaborators and never returns an error: an
// undecoded address reads as 0 and drops writes, mirroring hardware open-bus
// behavior.
type Bus struct {
	wram        *RAM
	ppu         *PPU
	apu         APU
	cartridge   ROM
	controllers [2]*Controller
}

// NewBus creates the CPU-side Bus.
func NewBus(wram *RAM, ppu *PPU, apu APU, cartridge ROM, controllers [2]*Controller) *Bus {
	return &Bus{wram, ppu, apu, cartridge, controllers}
}

// Read reads a byte per the CPU memory map.
func (b *Bus) Read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.wram.read(address & 0x7FF)
	case address < 0x4000:
		return b.readPPURegister(address)
	case address == 0x4015:
		return b.apu.Read()
	case address == 0x4016:
		return b.controllers[0].Read()
	case address == 0x4017:
		return b.controllers[1].Read()
	case address < 0x4020:
		return 0
	default:
		return b.cartridge.ReadPRG(address)
	}
}

// Read16 reads a little-endian 16-bit value.
func (b *Bus) Read16(address uint16) uint16 {
	lo := b.Read(address)
	hi := b.Read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Read16Wrap reproduces the 6502 JMP ($xxFF) page-wrap bug: the high byte is
// fetched from (addr & 0xFF00) | ((addr+1) & 0xFF), not addr+1 directly.
func (b *Bus) Read16Wrap(address uint16) uint16 {
	lo := b.Read(address)
	hiAddr := (address & 0xFF00) | ((address + 1) & 0x00FF)
	hi := b.Read(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

func (b *Bus) readPPURegister(address uint16) byte {
	switch address & 7 {
	case 2:
		return b.ppu.readPPUSTATUS()
	case 4:
		return b.ppu.readOAMDATA()
	case 7:
		return b.ppu.readPPUDATA()
	default:
		return 0
	}
}

// Write writes a byte per the CPU memory map. OAMDMA ($4014) is handled by
// the CPU itself, which needs to add stall cycles; Bus only exposes the raw
// copy via TriggerOAMDMA.
func (b *Bus) Write(address uint16, value byte) {
	switch {
	case address < 0x2000:
		b.wram.write(address&0x7FF, value)
	case address < 0x4000:
		b.writePPURegister(address, value)
	case address == 0x4016:
		b.controllers[0].Strobe(value)
		b.controllers[1].Strobe(value)
	case address == 0x4015:
		b.apu.Write(value, 0x15)
	case address == 0x4017:
		b.apu.Write(value, 0x17)
	case address < 0x4014:
		b.apu.Write(value, byte(address&0x1F))
	case address < 0x4020:
		glog.V(1).Infof("nes: unimplemented I/O write address=0x%04x data=0x%02x", address, value)
	default:
		b.cartridge.WritePRG(address, value)
	}
}

func (b *Bus) writePPURegister(address uint16, value byte) {
	switch address & 7 {
	case 0:
		b.ppu.writePPUCTRL(value)
	case 1:
		b.ppu.writePPUMASK(value)
	case 3:
		b.ppu.writeOAMADDR(value)
	case 4:
		b.ppu.writeOAMDATA(value)
	case 5:
		b.ppu.writePPUSCROLL(value)
	case 6:
		b.ppu.writePPUADDR(value)
	case 7:
		b.ppu.writePPUDATA(value)
	}
}

// TriggerOAMDMA copies 256 bytes starting at page<<8 into OAM, honoring the
// current OAMADDR as the starting write offset (spec.md §4.1/§8 scenario 6).
func (b *Bus) TriggerOAMDMA(page byte) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.writeOAMDATA(b.Read(base + uint16(i)))
	}
}
