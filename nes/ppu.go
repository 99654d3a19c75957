package nes

// NMIPuller is the subset of the System's interrupt-line contract the PPU
// needs: raising NMI at the start of vblank, and (per spec.md §4.4) again
// immediately if NMI_enabled transitions 0->1 while the vblank flag is
// already set.
type NMIPuller interface {
	PullNMI()
}

// PPU is the scanline/dot-accurate Picture Processing Unit described in
// spec.md §4.4, generalizing the teacher's frame-at-a-time nes/ppu.go into a
// real per-dot pipeline. Reference:
//   https://www.nesdev.org/wiki/PPU
//   https://www.nesdev.org/wiki/PPU_rendering
//   https://www.nesdev.org/wiki/PPU_scrolling
type PPU struct {
	bus *PPUBus
	nmi NMIPuller

	// Loopy scroll registers: v is the address used while rendering/for
	// PPUDATA access, t is staged by PPUCTRL/PPUSCROLL/PPUADDR writes.
	v, t   uint16
	fineX  byte
	w      bool
	buffer byte // PPUDATA read buffer

	ctrl   byte
	mask   byte
	status byte
	oamAddr byte

	oam          [256]byte
	secondaryOAM [32]byte
	palette      [32]byte

	// Background pipeline latches.
	bgShiftLo, bgShiftHi     uint16
	bgAttrShiftLo, bgAttrShiftHi byte
	bgAttrLatchLo, bgAttrLatchHi byte
	nextTileID, nextAttr        byte
	nextPatternLo, nextPatternHi byte

	// Sprite pipeline, one slot per the 8 sprites selected for this scanline.
	spriteCount      int
	spriteX          [8]byte
	spriteAttr       [8]byte
	spritePatternLo  [8]byte
	spritePatternHi  [8]byte
	spriteIsZero     [8]bool
	spriteZeroOnLine bool
	spriteZeroRendering bool
	secondaryOAMCount int

	cycle    int
	scanline int
	oddFrame bool

	framebuffer [256 * 240]uint32
	video       VideoDevice
}

// PPUCTRL bits.
const (
	ctrlBaseNametable   = 0x03
	ctrlVRAMIncrement32 = 1 << 2
	ctrlSpritePattern   = 1 << 3
	ctrlBGPattern       = 1 << 4
	ctrlSpriteSize8x16  = 1 << 5
	ctrlNMIEnabled      = 1 << 7
)

// PPUMASK bits.
const (
	maskGrayscale    = 1 << 0
	maskShowBGLeft   = 1 << 1
	maskShowSpLeft   = 1 << 2
	maskShowBG       = 1 << 3
	maskShowSprites  = 1 << 4
)

// PPUSTATUS bits.
const (
	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

// NewPPU creates a PPU wired to its memory bus and interrupt line.
func NewPPU(bus *PPUBus, nmi NMIPuller) *PPU {
	p := &PPU{bus: bus, nmi: nmi}
	p.Reset()
	return p
}

// SetVideoDevice attaches the host collaborator that receives completed
// frames (IVideoDevice).
func (p *PPU) SetVideoDevice(v VideoDevice) {
	p.video = v
}

// Cycle and Scanline expose the current dot position for diagnostics
// (debugterm, statsview); the core never calls these itself.
func (p *PPU) Cycle() int    { return p.cycle }
func (p *PPU) Scanline() int { return p.scanline }

// Reset puts the PPU into its post-power-up state: rendering disabled,
// status flags clear, positioned at dot 0 of the pre-render scanline.
func (p *PPU) Reset() {
	p.v = 0
	p.t = 0
	p.w = false
	p.fineX = 0
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.cycle = 0
	p.scanline = -1
	p.oddFrame = false
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// writePPUCTRL handles a write to $2000.
func (p *PPU) writePPUCTRL(value byte) {
	wasEnabled := p.ctrl&ctrlNMIEnabled != 0
	p.ctrl = value
	p.t = (p.t &^ 0x0C00) | (uint16(value&ctrlBaseNametable) << 10)
	nowEnabled := p.ctrl&ctrlNMIEnabled != 0
	if !wasEnabled && nowEnabled && p.status&statusVBlank != 0 {
		p.nmi.PullNMI()
	}
}

// writePPUMASK handles a write to $2001.
func (p *PPU) writePPUMASK(value byte) {
	p.mask = value
}

// readPPUSTATUS handles a read of $2002: clears vblank and the write toggle.
// The CPU reads between the PPU ticks of whole instructions, so the value
// returned reflects every dot ticked before the current instruction began.
// A read that coincides with the dot on which vblank is set is not
// special-cased: neither the returned flag nor that frame's NMI is
// suppressed.
func (p *PPU) readPPUSTATUS() byte {
	v := p.status
	p.status &^= statusVBlank
	p.w = false
	return v
}

func (p *PPU) writeOAMADDR(value byte) {
	p.oamAddr = value
}

func (p *PPU) readOAMDATA() byte {
	return p.oam[p.oamAddr]
}

func (p *PPU) writeOAMDATA(value byte) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// writePPUSCROLL handles $2005: first write sets fine/coarse X, second sets
// fine/coarse Y, toggling w.
func (p *PPU) writePPUSCROLL(value byte) {
	if !p.w {
		p.fineX = value & 0x07
		p.t = (p.t &^ 0x001F) | uint16(value>>3)
	} else {
		p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
	}
	p.w = !p.w
}

// writePPUADDR handles $2006: first write sets the high 6 bits of t (with
// bit 14 cleared), second sets the low 8 bits and copies t into v.
func (p *PPU) writePPUADDR(value byte) {
	if !p.w {
		p.t = (p.t & 0x00FF) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t & 0xFF00) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&ctrlVRAMIncrement32 != 0 {
		return 32
	}
	return 1
}

// palatteMirror aliases $3F10/$14/$18/$1C onto $3F00/$04/$08/$0C, on both
// read and write (spec.md §3 invariant).
func palatteMirror(addr byte) byte {
	addr &= 0x1F
	if addr >= 0x10 && addr%4 == 0 {
		addr -= 0x10
	}
	return addr
}

// readPPUDATA handles $2007 reads: buffered for nametable/pattern space,
// direct (but still refilling the buffer from the nametable mirror) for
// palette space.
func (p *PPU) readPPUDATA() byte {
	addr := p.v & 0x3FFF
	var result byte
	if addr >= 0x3F00 {
		result = p.palette[palatteMirror(byte(addr))]
		p.buffer = p.bus.Read(addr - 0x1000)
	} else {
		result = p.buffer
		p.buffer = p.bus.Read(addr)
	}
	p.v += p.vramIncrement()
	return result
}

// writePPUDATA handles $2007 writes.
func (p *PPU) writePPUDATA(value byte) {
	addr := p.v & 0x3FFF
	if addr >= 0x3F00 {
		p.palette[palatteMirror(byte(addr))] = value
	} else {
		p.bus.Write(addr, value)
	}
	p.v += p.vramIncrement()
}

// readBackgroundColorQuirk implements spec.md §4.4's "rendering off, v in
// $3F00-$3FFF reads palette[v&0x1F]" pass-through pixel; outside that range
// the pixel is the backdrop color, palette[0].
func (p *PPU) readBackgroundColorQuirk() uint32 {
	if p.v&0x3FFF >= 0x3F00 {
		return nesPalette[p.palette[palatteMirror(byte(p.v))]&0x3F]
	}
	return nesPalette[p.palette[0]&0x3F]
}
