package nes

import "github.com/golang/glog"

// Console is the System of spec.md §2: it owns every collaborator and
// drives the 1 CPU cycle : 3 PPU dots : 1 APU cycle clocking ratio NTSC
// hardware uses. Generalizes the teacher's nes/console.go, which wired only
// CPU+PPU, into the full CPU+PPU+APU+Cartridge+Controllers graph.
type Console struct {
	CPU        *CPU
	PPU        *PPU
	APU        *APUImpl
	Cartridge  *Cartridge
	Controller1 *Controller
	Controller2 *Controller

	bus    *Bus
	ppuBus *PPUBus
}

// NewConsole loads an iNES image and wires up a complete, reset system. A
// malformed cartridge is a CartridgeLoadError (spec.md §7), returned to the
// caller so a host frontend can choose how to report it; MustNewConsole is
// the variant that logs it fatally.
func NewConsole(romBytes []byte, video VideoDevice) (*Console, error) {
	cartridge, err := NewCartridge(romBytes)
	if err != nil {
		return nil, err
	}

	controller1 := NewController()
	controller2 := NewController()

	console := &Console{
		Cartridge:   cartridge,
		Controller1: controller1,
		Controller2: controller2,
	}

	console.ppuBus = NewPPUBus(cartridge)
	console.PPU = NewPPU(console.ppuBus, console)
	console.PPU.SetVideoDevice(video)
	console.APU = NewAPU()
	console.bus = NewBus(NewRAM(), console.PPU, console.APU, cartridge, [2]*Controller{controller1, controller2})
	console.CPU = NewCPU(console.bus)
	return console, nil
}

// MustNewConsole is the cmd-boundary convenience the teacher reaches for
// (log.Fatalln on a malformed ROM) instead of propagating the error.
func MustNewConsole(romBytes []byte, video VideoDevice) *Console {
	console, err := NewConsole(romBytes, video)
	if err != nil {
		glog.Fatalln(err)
	}
	return console
}

// PullNMI implements NMIPuller: the PPU calls this at the start of vblank
// (and on the CTRL NMI-enable edge case), forwarding to the CPU's latch.
func (c *Console) PullNMI() {
	c.CPU.PullNMI()
}

// PullIRQ asserts the level-triggered IRQ line, forwarding to the CPU. A
// mapper or the APU's frame/DMC IRQ source calls this while it wants
// service.
func (c *Console) PullIRQ() {
	c.CPU.SetIRQLine(true)
}

// ResetIRQ clears the IRQ line. The source that asserted it (mapper or APU)
// calls this once its interrupt condition is acknowledged.
func (c *Console) ResetIRQ() {
	c.CPU.SetIRQLine(false)
}

// Reset reproduces a console reset: CPU jumps through the reset vector,
// PPU clears its transient render state, APU is left running (the real
// 2A03's frame sequencer is not reset by /RESET).
func (c *Console) Reset() {
	c.CPU.Reset()
	c.PPU.Reset()
}

// Step runs exactly one CPU instruction (or stall/interrupt-service tick)
// and the PPU/APU ticks it implies, returning the CPU cycle count consumed
// (spec.md §4.5's clocking invariant: 3 PPU dots and 1 APU tick per CPU
// cycle).
func (c *Console) Step() int {
	cycles := c.CPU.Step()
	for i := 0; i < cycles; i++ {
		c.PPU.Tick()
		c.PPU.Tick()
		c.PPU.Tick()
		c.APU.Tick()
	}
	return cycles
}

// RunFrame steps the console until the PPU reports a completed frame,
// the unit a host render loop (ui/uisdl/uiebiten) drives once per vsync.
func (c *Console) RunFrame() {
	for {
		c.Step()
		if c.PPU.FrameComplete() {
			return
		}
	}
}

// SetButtonState forwards a host input event to the given controller slot
// (0 or 1).
func (c *Console) SetButtonState(player int, button Button, pressed bool) {
	switch player {
	case 0:
		c.Controller1.SetButtonState(button, pressed)
	case 1:
		c.Controller2.SetButtonState(button, pressed)
	}
}
