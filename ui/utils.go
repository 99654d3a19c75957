package ui

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"nescore/nes"
)

// applyKeys samples WASD+FGHJ (the teacher's layout) and forwards live
// button state to player 1.
func applyKeys(window *glfw.Window, console *nes.Console) {
	set := func(b nes.Button, key glfw.Key) {
		console.SetButtonState(0, b, window.GetKey(key) == glfw.Press)
	}
	set(nes.ButtonRight, glfw.KeyD)
	set(nes.ButtonLeft, glfw.KeyA)
	set(nes.ButtonDown, glfw.KeyS)
	set(nes.ButtonUp, glfw.KeyW)
	set(nes.ButtonStart, glfw.KeyG)
	set(nes.ButtonSelect, glfw.KeyF)
	set(nes.ButtonB, glfw.KeyH)
	set(nes.ButtonA, glfw.KeyJ)
}
