package nes

// ROM is the collaborator contract for a parsed cartridge image (IROM in the
// design notes). The core never forwards palette addresses ($3F00 and up)
// here; those are handled entirely inside the PPU.
type ROM interface {
	ReadPRG(addr uint16) byte
	WritePRG(addr uint16, value byte)
	PatternRead(addr uint16) byte
	PatternWrite(addr uint16, value byte)
	NametableRead(table int, addr uint16) byte
	NametableWrite(table int, addr uint16, value byte)
}

// APU is the collaborator contract for the audio processing unit (IAPU).
// Waveform fidelity is explicitly out of scope for this core; tick/read/write
// are wired so a host can drive a real mixer.
type APU interface {
	Read() byte
	Write(value byte, index byte)
	Tick()
}

// VideoDevice receives one completed framebuffer per PPU frame (IVideoDevice).
type VideoDevice interface {
	SetBuffer(framebuffer *[256 * 240]uint32)
}

// InputDevice is the per-frame input-sampling contract (IInputDevice). The
// core holds no InputDevice and never calls Tick; the frontends sample
// their keys themselves and forward them through Console.SetButtonState.
type InputDevice interface {
	Tick()
}

// Button is a single controller bit, ordered to match the shift-register
// layout A,B,Select,Start,Up,Down,Left,Right documented in spec 4.2.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)
