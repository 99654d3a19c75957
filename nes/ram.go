package nes

// RAM is a flat byte array used for both CPU work RAM and PPU VRAM; both are
// 2KiB on real hardware and mirrored by their respective buses.
type RAM struct {
	data [2048]byte
}

// NewRAM creates a RAM for either CPU or PPU use.
func NewRAM() *RAM {
	return &RAM{}
}

// read reads data.
func (r *RAM) read(address uint16) byte {
	return r.data[address]
}

// write writes data.
func (r *RAM) write(address uint16, x byte) {
	r.data[address] = x
}
