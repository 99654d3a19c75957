package nes

import "testing"

// TestControllerShiftsOutButtonsInOrder checks the A,B,Select,Start,Up,Down,
// Left,Right bit order spec.md §4.2 documents, latched on the strobe's
// falling edge.
func TestControllerShiftsOutButtonsInOrder(t *testing.T) {
	c := NewController()
	c.SetButtonState(ButtonA, true)
	c.SetButtonState(ButtonSelect, true)
	c.SetButtonState(ButtonRight, true)

	c.Strobe(1)
	c.Strobe(0) // falling edge latches live state

	want := []bool{true, false, true, false, false, false, false, true} // A,B,Sel,Start,Up,Down,Left,Right
	for i, w := range want {
		got := c.Read()&1 == 1
		if got != w {
			t.Fatalf("bit %d: got=%v, want=%v", i, got, w)
		}
	}
}

// TestControllerReadsOnesAfterEighthBit checks that reads past the 8-bit
// shift register return 1 forever until the next strobe.
func TestControllerReadsOnesAfterEighthBit(t *testing.T) {
	c := NewController()
	c.Strobe(1)
	c.Strobe(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if c.Read()&1 != 1 {
			t.Fatalf("read %d past end of shift register: want bit=1", i)
		}
	}
}

// TestControllerStrobeHighResamplesButtonALive checks the documented quirk:
// while strobe is held high, every read re-samples the live A button instead
// of shifting, so toggling A changes the next read immediately.
func TestControllerStrobeHighResamplesButtonALive(t *testing.T) {
	c := NewController()
	c.Strobe(1)
	c.SetButtonState(ButtonA, true)
	if c.Read()&1 != 1 {
		t.Fatal("expected A pressed while strobe high")
	}
	c.SetButtonState(ButtonA, false)
	if c.Read()&1 != 0 {
		t.Fatal("expected A released to be reflected immediately while strobe high")
	}
}
