package nes

import "testing"

func TestNewConsoleRejectsMalformedCartridge(t *testing.T) {
	_, err := NewConsole([]byte("garbage"), nil)
	if err == nil {
		t.Fatal("expected an error constructing a Console from a malformed image")
	}
}

// TestStepTicksPPUThreeTimesPerCPUCycle checks spec.md §4.5's clocking
// invariant: every CPU cycle consumed advances the PPU by exactly 3 dots.
func TestStepTicksPPUThreeTimesPerCPUCycle(t *testing.T) {
	console := newTestConsole([]byte{0xEA}) // NOP, 2 cycles
	startCycle, startScanline := console.PPU.cycle, console.PPU.scanline
	cpuCycles := console.Step()
	gotDots := (console.PPU.scanline-startScanline)*341 + (console.PPU.cycle - startCycle)
	if gotDots != cpuCycles*3 {
		t.Fatalf("PPU dots advanced: got=%d, want=%d (3x %d CPU cycles)", gotDots, cpuCycles*3, cpuCycles)
	}
}

// TestRunFrameAdvancesExactlyOneFrame checks Console.RunFrame always makes
// forward progress even though the PPU starts exactly on the frame-complete
// boundary after Reset.
func TestRunFrameAdvancesExactlyOneFrame(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	if !console.PPU.FrameComplete() {
		t.Fatal("PPU should start on the frame-complete boundary right after Reset")
	}
	console.RunFrame()
	if !console.PPU.FrameComplete() {
		t.Fatal("RunFrame should return exactly on the next frame-complete boundary")
	}
	if console.CPU.cycle == 0 {
		t.Fatal("RunFrame should have executed at least one CPU instruction")
	}
}

// TestSetButtonStateRoutesToTheRightController checks player routing.
func TestSetButtonStateRoutesToTheRightController(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	console.SetButtonState(0, ButtonA, true)
	console.SetButtonState(1, ButtonB, true)
	if !console.Controller1.live[ButtonA] {
		t.Fatal("player 0 button A not routed to Controller1")
	}
	if console.Controller1.live[ButtonB] {
		t.Fatal("player 0 should not affect Controller1's B")
	}
	if !console.Controller2.live[ButtonB] {
		t.Fatal("player 1 button B not routed to Controller2")
	}
}

// TestSaveStateRoundTripsArchitecturalState checks that a SaveState captured
// mid-execution, loaded into a fresh Console booted from the same ROM,
// reproduces the CPU's A, X and PC exactly.
func TestSaveStateRoundTripsArchitecturalState(t *testing.T) {
	code := []byte{
		0xA9, 0x42, // LDA #$42
		0xA2, 0x07, // LDX #$07
		0xEA, // NOP
	}
	console := newTestConsole(code)
	console.Step() // LDA
	console.Step() // LDX
	console.Step() // NOP

	snap := console.SaveState()

	fresh := newTestConsole(code)
	if err := fresh.LoadState(snap); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if fresh.CPU.a != console.CPU.a || fresh.CPU.x != console.CPU.x {
		t.Fatalf("register mismatch after load: a=0x%02x(want 0x%02x) x=0x%02x(want 0x%02x)",
			fresh.CPU.a, console.CPU.a, fresh.CPU.x, console.CPU.x)
	}
	if fresh.CPU.pc != console.CPU.pc {
		t.Fatalf("pc mismatch after load: got=0x%04x, want=0x%04x", fresh.CPU.pc, console.CPU.pc)
	}
}

// TestSaveStateEncodeDecodeRoundTrips checks the gob wire format survives a
// full byte-slice round trip, the shape a host uses to persist to disk.
func TestSaveStateEncodeDecodeRoundTrips(t *testing.T) {
	console := newTestConsole([]byte{0xA9, 0x99})
	console.Step()
	snap := console.SaveState()

	data, err := EncodeSaveState(snap)
	if err != nil {
		t.Fatalf("EncodeSaveState: %v", err)
	}
	decoded, err := DecodeSaveState(data)
	if err != nil {
		t.Fatalf("DecodeSaveState: %v", err)
	}
	if decoded.CPU.A != snap.CPU.A || decoded.CPU.PC != snap.CPU.PC {
		t.Fatalf("decoded snapshot mismatch: A=0x%02x(want 0x%02x) PC=0x%04x(want 0x%04x)",
			decoded.CPU.A, snap.CPU.A, decoded.CPU.PC, snap.CPU.PC)
	}
}

// TestLoadStateRejectsVersionMismatch checks LoadState refuses a snapshot
// from an incompatible version rather than silently corrupting state.
func TestLoadStateRejectsVersionMismatch(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	snap := console.SaveState()
	snap.Version = saveStateVersion + 1
	if err := console.LoadState(snap); err == nil {
		t.Fatal("expected an error loading a mismatched save-state version")
	}
}
