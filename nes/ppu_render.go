package nes

// Tick advances the PPU by one dot (pixel clock), the unit the System's
// top-level loop drives three times per CPU cycle (spec.md §2/§4.4).
func (p *PPU) Tick() {
	p.renderStep()

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.oddFrame = !p.oddFrame
		}
	}
}

// FrameComplete reports whether the dot just processed was the last of a
// frame (pre-render scanline, dot 0), so a caller driving Tick() manually
// can detect frame boundaries without a callback.
func (p *PPU) FrameComplete() bool {
	return p.scanline == -1 && p.cycle == 0
}

func (p *PPU) renderStep() {
	switch {
	case p.scanline >= -1 && p.scanline <= 239:
		p.visibleOrPrerenderStep()
	case p.scanline == 241 && p.cycle == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnabled != 0 {
			p.nmi.PullNMI()
		}
		p.presentFrame()
	}
}

func (p *PPU) visibleOrPrerenderStep() {
	if p.scanline == -1 && p.cycle == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
	}

	renderEnabled := p.renderingEnabled()

	if p.cycle >= 1 && p.cycle <= 256 {
		if p.scanline >= 0 {
			p.renderPixel()
		}
		if renderEnabled {
			p.shiftBackground()
			p.backgroundFetchCycle()
		}
		if p.cycle == 256 && renderEnabled {
			p.incrementY()
		}
	} else if p.cycle == 257 {
		if renderEnabled {
			p.loadShiftRegisters()
			p.transferX()
		}
		if p.scanline >= 0 {
			p.evaluateSprites()
		}
	} else if p.cycle >= 258 && p.cycle <= 320 {
		p.oamAddr = 0
	} else if p.cycle >= 321 && p.cycle <= 336 {
		if renderEnabled {
			p.shiftBackground()
			p.backgroundFetchCycle()
		}
	} else if p.cycle == 337 || p.cycle == 339 {
		if renderEnabled {
			p.nextTileID = p.bus.Read(0x2000 | (p.v & 0x0FFF))
		}
	}

	if p.scanline == -1 && p.cycle >= 280 && p.cycle <= 304 && renderEnabled {
		p.transferY()
	}

	// Odd-frame dot skip on the pre-render line (spec.md §4.4 edge case).
	if p.scanline == -1 && p.cycle == 339 && p.oddFrame && renderEnabled {
		p.cycle++
	}
}

// backgroundFetchCycle performs the 8-dot nametable/attribute/pattern fetch
// sequence, one byte every 2 dots, matching the real PPU fetch pattern.
func (p *PPU) backgroundFetchCycle() {
	switch p.cycle % 8 {
	case 1:
		p.loadShiftRegisters()
		p.nextTileID = p.bus.Read(0x2000 | (p.v & 0x0FFF))
	case 3:
		addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		attr := p.bus.Read(addr)
		if p.v&0x40 != 0 {
			attr >>= 4
		}
		if p.v&0x02 != 0 {
			attr >>= 2
		}
		p.nextAttr = attr & 0x03
	case 5:
		fine := (p.v >> 12) & 0x07
		base := uint16(0)
		if p.ctrl&ctrlBGPattern != 0 {
			base = 0x1000
		}
		p.nextPatternLo = p.bus.Read(base + uint16(p.nextTileID)*16 + fine)
	case 7:
		fine := (p.v >> 12) & 0x07
		base := uint16(0)
		if p.ctrl&ctrlBGPattern != 0 {
			base = 0x1000
		}
		p.nextPatternHi = p.bus.Read(base + uint16(p.nextTileID)*16 + fine + 8)
	case 0:
		p.incrementX()
	}
}

func (p *PPU) loadShiftRegisters() {
	p.bgShiftLo = (p.bgShiftLo &^ 0x00FF) | uint16(p.nextPatternLo)
	p.bgShiftHi = (p.bgShiftHi &^ 0x00FF) | uint16(p.nextPatternHi)
	if p.nextAttr&0x01 != 0 {
		p.bgAttrLatchLo = 0xFF
	} else {
		p.bgAttrLatchLo = 0x00
	}
	if p.nextAttr&0x02 != 0 {
		p.bgAttrLatchHi = 0xFF
	} else {
		p.bgAttrLatchHi = 0x00
	}
}

func (p *PPU) shiftBackground() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.bgAttrShiftLo = p.bgAttrShiftLo<<1 | (p.bgAttrLatchLo & 1)
	p.bgAttrShiftHi = p.bgAttrShiftHi<<1 | (p.bgAttrLatchHi & 1)
}

// incrementX is the coarse-X/nametable-wrap step run every 8 dots
// (nesdev "Wrapping around" scrolling algorithm).
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY is the fine-Y/coarse-Y/nametable-wrap step run once per
// scanline at dot 256.
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch {
	case y == 29:
		y = 0
		p.v ^= 0x0800
	case y == 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) transferX() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) transferY() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

// evaluateSprites runs the secondary-OAM scan for the NEXT scanline, a
// simplification of the real two-phase (cycles 1-64 clear, 65-256 scan)
// hardware process that preserves its externally visible results: up to 8
// in-range sprites, the overflow flag, and sprite-0 tracking.
func (p *PPU) evaluateSprites() {
	p.spriteCount = 0
	p.spriteZeroOnLine = false
	targetLine := p.scanline + 1
	spriteHeight := 8
	if p.ctrl&ctrlSpriteSize8x16 != 0 {
		spriteHeight = 16
	}
	overflow := false
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		row := targetLine - y
		if row < 0 || row >= spriteHeight {
			continue
		}
		if p.spriteCount == 8 {
			overflow = true
			break
		}
		slot := p.spriteCount
		tile := p.oam[i*4+1]
		attr := p.oam[i*4+2]
		x := p.oam[i*4+3]
		if attr&0x80 != 0 {
			row = spriteHeight - 1 - row
		}
		var base, index uint16
		if spriteHeight == 16 {
			base = uint16(tile&1) * 0x1000
			index = uint16(tile &^ 1)
			if row >= 8 {
				index++
				row -= 8
			}
		} else {
			index = uint16(tile)
			if p.ctrl&ctrlSpritePattern != 0 {
				base = 0x1000
			}
		}
		lo := p.bus.Read(base + index*16 + uint16(row))
		hi := p.bus.Read(base + index*16 + uint16(row) + 8)
		if attr&0x40 != 0 {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.spriteX[slot] = x
		p.spriteAttr[slot] = attr
		p.spritePatternLo[slot] = lo
		p.spritePatternHi[slot] = hi
		p.spriteIsZero[slot] = i == 0
		if i == 0 {
			p.spriteZeroOnLine = true
		}
		p.spriteCount++
	}
	if overflow {
		p.status |= statusSpriteOverflow
	}
}

func reverseBits(b byte) byte {
	var r byte
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// renderPixel composes the background and sprite pipelines into the
// framebuffer pixel at (cycle-1, scanline), applying priority and
// sprite-0-hit rules (spec.md §4.4).
func (p *PPU) renderPixel() {
	x := p.cycle - 1
	y := p.scanline
	if x < 0 || x >= 256 || y < 0 || y >= 240 {
		return
	}

	if !p.renderingEnabled() {
		p.framebuffer[y*256+x] = p.readBackgroundColorQuirk()
		return
	}

	bgPixel, bgPalette := p.backgroundPixelAt(x)
	spPixel, spPalette, spPriority, spIsZero := p.spritePixelAt(x)

	if x < 8 {
		if !p.showBackgroundLeft() {
			bgPixel = 0
		}
		if !p.showSpritesLeft() {
			spPixel = 0
		}
	}

	var colorIndex byte
	switch {
	case bgPixel == 0 && spPixel == 0:
		colorIndex = p.palette[0]
	case bgPixel == 0:
		colorIndex = p.palette[0x10+spPalette*4+spPixel]
	case spPixel == 0:
		colorIndex = p.palette[bgPalette*4+bgPixel]
	default:
		if bgPixel != 0 && spPixel != 0 && spIsZero && p.spriteZeroOnLine && x >= 1 && x <= 254 {
			p.status |= statusSprite0Hit
		}
		if spPriority {
			colorIndex = p.palette[bgPalette*4+bgPixel]
		} else {
			colorIndex = p.palette[0x10+spPalette*4+spPixel]
		}
	}
	p.framebuffer[y*256+x] = nesPalette[colorIndex&0x3F]
}

func (p *PPU) showBackgroundLeft() bool { return p.mask&maskShowBGLeft != 0 }
func (p *PPU) showSpritesLeft() bool    { return p.mask&maskShowSpLeft != 0 }

func (p *PPU) backgroundPixelAt(x int) (pixel, palette byte) {
	if p.mask&maskShowBG == 0 {
		return 0, 0
	}
	bit := uint16(15 - p.fineX)
	lo := byte((p.bgShiftLo >> bit) & 1)
	hi := byte((p.bgShiftHi >> bit) & 1)
	pixel = hi<<1 | lo
	abit := byte(7 - p.fineX)
	alo := (p.bgAttrShiftLo >> abit) & 1
	ahi := (p.bgAttrShiftHi >> abit) & 1
	palette = ahi<<1 | alo
	return pixel, palette
}

func (p *PPU) spritePixelAt(x int) (pixel, palette byte, behindBackground bool, isZero bool) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0, false, false
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spriteX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		lo := (p.spritePatternLo[i] >> (7 - offset)) & 1
		hi := (p.spritePatternHi[i] >> (7 - offset)) & 1
		px := hi<<1 | lo
		if px == 0 {
			continue
		}
		attr := p.spriteAttr[i]
		return px, attr & 0x03, attr&0x20 != 0, p.spriteIsZero[i]
	}
	return 0, 0, false, false
}

// presentFrame hands the completed framebuffer to the attached video
// device, if any (spec.md §4.4 frame-complete signal to IVideoDevice).
func (p *PPU) presentFrame() {
	if p.video != nil {
		p.video.SetBuffer(&p.framebuffer)
	}
}
