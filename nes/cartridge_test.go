package nes

import "testing"

func TestNewCartridgeRejectsNonINESImage(t *testing.T) {
	_, err := NewCartridge([]byte("not an ines rom"))
	if err == nil {
		t.Fatal("expected an error for a malformed iNES image")
	}
}

func TestNewCartridgeRejectsUnsupportedMapper(t *testing.T) {
	rom := buildROM([]byte{0xEA})
	rom[7] = 0xF0 // mapper number high nibble -> mapper 240, unsupported
	_, err := NewCartridge(rom)
	if err == nil {
		t.Fatal("expected an error for an unsupported mapper number")
	}
}

// TestMirroringFlagSelectsNametableLayout checks spec.md §4.1's horizontal
// vs vertical mirroring: which of the two physical 1KiB banks each of the
// four logical nametables maps to.
func TestMirroringFlagSelectsNametableLayout(t *testing.T) {
	horizontalROM := buildROM([]byte{0xEA})
	horizontalROM[6] = 0x00 // flags6 bit0=0 -> horizontal
	h, err := NewCartridge(horizontalROM)
	if err != nil {
		t.Fatal(err)
	}
	// Horizontal: logical tables 0,1 share bank 0; 2,3 share bank 1.
	if h.physicalTable(0) != h.physicalTable(1) {
		t.Fatal("horizontal mirroring: tables 0 and 1 should share a bank")
	}
	if h.physicalTable(0) == h.physicalTable(2) {
		t.Fatal("horizontal mirroring: tables 0 and 2 should use different banks")
	}

	verticalROM := buildROM([]byte{0xEA})
	verticalROM[6] = 0x01 // flags6 bit0=1 -> vertical
	v, err := NewCartridge(verticalROM)
	if err != nil {
		t.Fatal(err)
	}
	// Vertical: logical tables 0,2 share bank 0; 1,3 share bank 1.
	if v.physicalTable(0) != v.physicalTable(2) {
		t.Fatal("vertical mirroring: tables 0 and 2 should share a bank")
	}
	if v.physicalTable(0) == v.physicalTable(1) {
		t.Fatal("vertical mirroring: tables 0 and 1 should use different banks")
	}
}

// TestNametableReadWriteRoundTrips exercises a plain write/read, confirming
// NametableRead/Write are wired through the same physical bank.
func TestNametableReadWriteRoundTrips(t *testing.T) {
	c, err := NewCartridge(buildROM([]byte{0xEA}))
	if err != nil {
		t.Fatal(err)
	}
	c.NametableWrite(0, 0x0042, 0x99)
	if got := c.NametableRead(0, 0x0042); got != 0x99 {
		t.Fatalf("nametable round trip: got=0x%02x, want=0x99", got)
	}
}
