package nes

import "testing"

// fakeNMI counts PullNMI calls instead of forwarding to a real CPU, so PPU
// tests don't need a whole Console.
type fakeNMI struct{ count int }

func (f *fakeNMI) PullNMI() { f.count++ }

func newTestPPU() (*PPU, *fakeNMI) {
	rom, err := NewCartridge(buildROM([]byte{0xEA}))
	if err != nil {
		panic(err)
	}
	nmi := &fakeNMI{}
	ppu := NewPPU(NewPPUBus(rom), nmi)
	return ppu, nmi
}

// TestVBlankSetsStatusAndPullsNMIAtScanline241Dot1 checks spec.md §4.4's
// vblank/NMI timing: the flag and interrupt fire at exactly scanline 241,
// dot 1, not one dot earlier or later.
func TestVBlankSetsStatusAndPullsNMIAtScanline241Dot1(t *testing.T) {
	ppu, nmi := newTestPPU()
	ppu.ctrl |= ctrlNMIEnabled
	ppu.scanline = 241
	ppu.cycle = 0

	ppu.Tick() // renderStep ran for dot 0; cycle is now 1, nothing should have fired yet
	if ppu.status&statusVBlank != 0 {
		t.Fatal("vblank set before dot 1")
	}

	ppu.Tick() // renderStep now runs for dot 1, where vblank/NMI fire
	if ppu.status&statusVBlank == 0 {
		t.Fatal("vblank not set at scanline 241 dot 1")
	}
	if nmi.count != 1 {
		t.Fatalf("PullNMI calls: got=%d, want=1", nmi.count)
	}
}

// TestReadPPUSTATUSClearsVBlankAndWriteToggle checks the $2002 read
// side-effects spec.md §4.4 requires.
func TestReadPPUSTATUSClearsVBlankAndWriteToggle(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.status = statusVBlank | statusSprite0Hit
	ppu.w = true

	got := ppu.readPPUSTATUS()
	if got&statusVBlank == 0 {
		t.Fatal("first read should still report vblank set")
	}
	if ppu.status&statusVBlank != 0 {
		t.Fatal("vblank not cleared by the read")
	}
	if ppu.status&statusSprite0Hit == 0 {
		t.Fatal("sprite-0-hit should be unaffected by a status read")
	}
	if ppu.w {
		t.Fatal("write toggle not cleared by a status read")
	}
}

// TestPaletteMirroringAliasesBackdropEntries checks the $3F10/14/18/1C ->
// $3F00/04/08/0C aliasing spec.md §3 and §4.4 both call out.
func TestPaletteMirroringAliasesBackdropEntries(t *testing.T) {
	cases := []struct{ mirrored, canonical byte }{
		{0x10, 0x00},
		{0x14, 0x04},
		{0x18, 0x08},
		{0x1C, 0x0C},
	}
	for _, tc := range cases {
		if got := palatteMirror(tc.mirrored); got != tc.canonical {
			t.Errorf("palatteMirror(0x%02x): got=0x%02x, want=0x%02x", tc.mirrored, got, tc.canonical)
		}
	}
	// Non-backdrop sprite-palette entries are not aliased.
	if got := palatteMirror(0x11); got != 0x11 {
		t.Errorf("palatteMirror(0x11): got=0x%02x, want=0x11 (unaliased)", got)
	}
}

// TestPPUDATAReadIsBufferedOneReadBehind checks the documented "dummy read"
// quirk of $2007 outside palette space: the first read after setting the
// address returns stale data, and the *next* read returns what was requested.
func TestPPUDATAReadIsBufferedOneReadBehind(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.v = 0x2000
	ppu.bus.Write(0x2000, 0xAB)
	ppu.bus.Write(0x2001, 0xCD)

	ppu.v = 0x2000
	first := ppu.readPPUDATA() // returns whatever was in the buffer before (0x00)
	if first != 0x00 {
		t.Fatalf("first buffered read: got=0x%02x, want=0x00", first)
	}
	second := ppu.readPPUDATA() // now returns the byte at the original address
	if second != 0xAB {
		t.Fatalf("second buffered read: got=0x%02x, want=0xAB", second)
	}
}

// TestPPUDATAReadFromPaletteSpaceIsNotBuffered checks the palette-space
// exception: reads at or above $3F00 return the palette entry directly, with
// no one-read delay (only the refill buffer lags, using the nametable mirror).
func TestPPUDATAReadFromPaletteSpaceIsNotBuffered(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.palette[0x05] = 0x2A
	ppu.v = 0x3F05
	got := ppu.readPPUDATA()
	if got != 0x2A {
		t.Fatalf("palette read: got=0x%02x, want=0x2A", got)
	}
}

// TestVRAMIncrementFollowsCtrlBit checks PPUCTRL bit 2 selects a +1 vs +32
// VRAM address step on PPUDATA access.
func TestVRAMIncrementFollowsCtrlBit(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.ctrl = 0
	if got := ppu.vramIncrement(); got != 1 {
		t.Fatalf("increment with bit clear: got=%d, want=1", got)
	}
	ppu.ctrl = ctrlVRAMIncrement32
	if got := ppu.vramIncrement(); got != 32 {
		t.Fatalf("increment with bit set: got=%d, want=32", got)
	}
}

// TestOddFrameSkipsOneDot checks the odd-frame dot-skip: on the pre-render
// scanline of an odd frame, cycle 339 is immediately followed by scanline 0,
// cycle 0, skipping dot 340 that an even frame would tick through.
func TestOddFrameSkipsOneDot(t *testing.T) {
	ppu, _ := newTestPPU()
	ppu.mask = maskShowBG // rendering enabled, required for the skip
	ppu.scanline = -1
	ppu.cycle = 339
	ppu.oddFrame = true

	ppu.Tick()
	if ppu.scanline != 0 || ppu.cycle != 0 {
		t.Fatalf("after odd-frame skip: scanline=%d cycle=%d, want scanline=0 cycle=0", ppu.scanline, ppu.cycle)
	}
}
