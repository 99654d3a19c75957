// Package ui is the primary host frontend: an OpenGL window (go-gl/gl +
// go-gl/glfw) presenting PPU frames and a portaudio stream draining the
// APU's mixed samples, generalizing the teacher's ui/ui.go main loop onto
// the rebuilt nes.Console API.
package ui

import (
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"nescore/nes"
)

// frameSink implements nes.VideoDevice, handing the PPU's latest completed
// framebuffer to the render loop below.
type frameSink struct {
	latest *[256 * 240]uint32
}

func (f *frameSink) SetBuffer(framebuffer *[256 * 240]uint32) {
	f.latest = framebuffer
}

func mainLoop(window *glfw.Window, console *nes.Console, sink *frameSink, texture uint32) {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for range ticker.C {
		console.RunFrame()
		if sink.latest != nil {
			updateTexture(texture, sink.latest)
			gl.Clear(gl.COLOR_BUFFER_BIT)
			gl.DrawArrays(gl.TRIANGLES, 0, 6)
			window.SwapBuffers()
		}
		glfw.PollEvents()
		applyKeys(window, console)
		if window.ShouldClose() {
			return
		}
	}
}

// Start opens a window sized width x height and runs console until the
// window is closed. It blocks the calling goroutine (the caller must have
// called runtime.LockOSThread, matching glfw's single-thread requirement).
func Start(console *nes.Console, width, height int) {
	if err := glfw.Init(); err != nil {
		glog.Fatalln(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, "nescore", nil, nil)
	if err != nil {
		glog.Fatalln(err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}
	program, texture, err := newProgram()
	if err != nil {
		glog.Fatalln(err)
	}
	gl.UseProgram(program)

	sink := &frameSink{}
	console.PPU.SetVideoDevice(sink)

	a := newAudio()
	if err := a.start(); err != nil {
		glog.Errorf("ui: audio disabled: %v", err)
	} else {
		defer a.terminate()
		console.APU.SetAudioOut(a.channel)
	}

	mainLoop(window, console, sink, texture)
}
