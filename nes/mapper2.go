package nes

import "fmt"

// mapper2 is UxROM: https://www.nesdev.org/wiki/UxROM
// $8000-$BFFF is a 16KiB bank switched by the last write to $8000-$FFFF;
// $C000-$FFFF is fixed to the last bank. CHR is always RAM (8KiB).
type mapper2 struct {
	banks       int
	currentBank int
	prgROM      []byte
	chrRAM      []byte
}

func newMapper2(prgROM, chrROM []byte) *mapper2 {
	banks := len(prgROM) / prgROMSizeUnit
	if banks == 0 {
		banks = 1
	}
	return &mapper2{banks: banks, prgROM: prgROM, chrRAM: make([]byte, chrROMSizeUnit)}
}

func (m *mapper2) ReadPRG(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return 0
	case addr < 0xC000:
		i := m.currentBank*prgROMSizeUnit + int(addr-0x8000)
		return m.prgROM[i]
	default:
		i := (m.banks-1)*prgROMSizeUnit + int(addr-0xC000)
		return m.prgROM[i]
	}
}

func (m *mapper2) WritePRG(addr uint16, value byte) {
	if addr >= 0x8000 {
		m.currentBank = int(value) % m.banks
	}
}

func (m *mapper2) ReadCHR(addr uint16) byte {
	return m.chrRAM[addr%uint16(len(m.chrRAM))]
}

func (m *mapper2) WriteCHR(addr uint16, value byte) {
	m.chrRAM[addr%uint16(len(m.chrRAM))] = value
}

type mapper2State struct {
	CurrentBank int
	CHRRAM      []byte
}

func (m *mapper2) saveState() (int, []byte) {
	data, err := encodeGob(mapper2State{CurrentBank: m.currentBank, CHRRAM: m.chrRAM})
	if err != nil {
		return 2, nil
	}
	return 2, data
}

func (m *mapper2) loadState(number int, data []byte) error {
	if number != 2 {
		return fmt.Errorf("nes: mapper2.loadState: snapshot is for mapper %d", number)
	}
	var s mapper2State
	if err := decodeGob(data, &s); err != nil {
		return err
	}
	m.currentBank = s.CurrentBank
	copy(m.chrRAM, s.CHRRAM)
	return nil
}
