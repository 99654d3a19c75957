package nes

import "fmt"

// mapper0 is NROM: https://www.nesdev.org/wiki/NROM
// PRG ROM is 16KiB or 32KiB, mirrored to fill the $8000-$FFFF window. CHR ROM
// (or CHR RAM, if the image declared none) is a fixed 8KiB bank.
type mapper0 struct {
	prgROM []byte
	chrROM []byte
	prgRAM [0x2000]byte // $6000-$7FFF, Family Basic battery-backed RAM window
}

func newMapper0(prgROM, chrROM []byte) *mapper0 {
	if len(chrROM) == 0 {
		chrROM = make([]byte, chrROMSizeUnit)
	}
	return &mapper0{prgROM: prgROM, chrROM: chrROM}
}

func (m *mapper0) ReadPRG(addr uint16) byte {
	if addr >= 0x8000 {
		return m.prgROM[(addr-0x8000)%uint16(len(m.prgROM))]
	}
	if addr >= 0x6000 {
		return m.prgRAM[addr-0x6000]
	}
	return 0
}

func (m *mapper0) WritePRG(addr uint16, value byte) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[addr-0x6000] = value
	}
	// Writes to ROM are dropped: open-bus behavior, never an error.
}

func (m *mapper0) ReadCHR(addr uint16) byte {
	return m.chrROM[addr%uint16(len(m.chrROM))]
}

func (m *mapper0) WriteCHR(addr uint16, value byte) {
	m.chrROM[addr%uint16(len(m.chrROM))] = value
}

type mapper0State struct {
	PRGRAM [0x2000]byte
	CHRRAM []byte
}

func (m *mapper0) saveState() (int, []byte) {
	data, err := encodeGob(mapper0State{PRGRAM: m.prgRAM, CHRRAM: m.chrROM})
	if err != nil {
		return 0, nil
	}
	return 0, data
}

func (m *mapper0) loadState(number int, data []byte) error {
	if number != 0 {
		return fmt.Errorf("nes: mapper0.loadState: snapshot is for mapper %d", number)
	}
	var s mapper0State
	if err := decodeGob(data, &s); err != nil {
		return err
	}
	m.prgRAM = s.PRGRAM
	copy(m.chrROM, s.CHRRAM)
	return nil
}
