// Package uisdl is the alternate SDL2 frontend (selected with
// -backend=sdl), adding an imgui-go debug overlay the primary glfw backend
// doesn't have. Generalizes the shape of Gopher2600's gui/sdlimgui package
// (an SDL2 window hosting an imgui-go overlay over the emulated picture)
// down to nescore's simpler single-screen needs: no debugger, no
// lazyvalues, just the picture plus a stats window.
package uisdl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/golang/glog"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/veandco/go-sdl2/sdl"

	"nescore/nes"
)

// frameSink implements nes.VideoDevice.
type frameSink struct {
	latest *[256 * 240]uint32
}

func (f *frameSink) SetBuffer(framebuffer *[256 * 240]uint32) {
	f.latest = framebuffer
}

// Start opens an SDL2+OpenGL window, optionally with the imgui debug
// overlay, and runs console until the window is closed.
func Start(console *nes.Console, width, height int, debugOverlay bool) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		glog.Fatalln(fmt.Errorf("uisdl: init: %w", err))
	}
	defer sdl.Quit()

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)

	window, err := sdl.CreateWindow("nescore", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN)
	if err != nil {
		glog.Fatalln(fmt.Errorf("uisdl: create window: %w", err))
	}
	defer window.Destroy()

	glContext, err := window.GLCreateContext()
	if err != nil {
		glog.Fatalln(fmt.Errorf("uisdl: gl context: %w", err))
	}
	defer sdl.GLDeleteContext(glContext)

	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}

	program, texture, err := newQuadProgram()
	if err != nil {
		glog.Fatalln(err)
	}

	sink := &frameSink{}
	console.PPU.SetVideoDevice(sink)

	var overlay *imguiOverlay
	if debugOverlay {
		overlay = newImguiOverlay(int32(width), int32(height))
		defer overlay.shutdown()
	}

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				applyKey(console, e)
			}
		}

		console.RunFrame()

		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		if sink.latest != nil {
			gl.UseProgram(program)
			updateQuadTexture(texture, sink.latest)
			gl.DrawArrays(gl.TRIANGLES, 0, 6)
		}
		if overlay != nil {
			overlay.render(console)
		}
		window.GLSwap()
	}
}

func applyKey(console *nes.Console, e *sdl.KeyboardEvent) {
	pressed := e.State == sdl.PRESSED
	var button nes.Button
	switch e.Keysym.Sym {
	case sdl.K_d:
		button = nes.ButtonRight
	case sdl.K_a:
		button = nes.ButtonLeft
	case sdl.K_s:
		button = nes.ButtonDown
	case sdl.K_w:
		button = nes.ButtonUp
	case sdl.K_g:
		button = nes.ButtonStart
	case sdl.K_f:
		button = nes.ButtonSelect
	case sdl.K_h:
		button = nes.ButtonB
	case sdl.K_j:
		button = nes.ButtonA
	default:
		return
	}
	console.SetButtonState(0, button, pressed)
}

// imguiOverlay renders a minimal stats window using imgui-go's software
// draw data, rasterized directly with GL triangles (the same technique
// imgui-go's own example backends use, trimmed to the single font texture
// and single draw list this overlay needs).
type imguiOverlay struct {
	context  *imgui.Context
	io       imgui.IO
	fontTex  uint32
	vbo, ebo uint32
	program  uint32
	width    int32
	height   int32
}

func newImguiOverlay(width, height int32) *imguiOverlay {
	context := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetDisplaySize(imgui.Vec2{X: float32(width), Y: float32(height)})

	image := io.Fonts().TextureDataAlpha8()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(image.Width), int32(image.Height), 0, gl.RED, gl.UNSIGNED_BYTE, image.Pixels)
	io.Fonts().SetTextureID(imgui.TextureID(tex))

	program, err := compileOverlayProgram()
	if err != nil {
		glog.Errorf("uisdl: imgui overlay shader: %v", err)
	}

	var vbo, ebo uint32
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	return &imguiOverlay{context: context, io: io, fontTex: tex, vbo: vbo, ebo: ebo, program: program, width: width, height: height}
}

func (o *imguiOverlay) shutdown() {
	o.context.Destroy()
}

func (o *imguiOverlay) render(console *nes.Console) {
	imgui.NewFrame()
	imgui.BeginV("stats", nil, imgui.WindowFlagsAlwaysAutoResize)
	imgui.Text(fmt.Sprintf("PC=0x%04x A=0x%02x X=0x%02x Y=0x%02x", console.CPU.PC(), console.CPU.A(), console.CPU.X(), console.CPU.Y()))
	imgui.Text(fmt.Sprintf("scanline=%d cycle=%d", console.PPU.Scanline(), console.PPU.Cycle()))
	imgui.End()
	imgui.Render()
	o.draw(imgui.RenderedDrawData())
}

// draw rasterizes imgui's draw lists with a flat, unlit, textured triangle
// shader; blending is enabled so the overlay composites over the NES
// picture drawn earlier this frame.
func (o *imguiOverlay) draw(data imgui.DrawData) {
	if o.program == 0 {
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.UseProgram(o.program)

	for _, list := range data.CommandLists() {
		vbBytes, vbSize := list.VertexBuffer()
		ibBytes, ibSize := list.IndexBuffer()
		gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, vbSize, vbBytes, gl.STREAM_DRAW)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, o.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, ibSize, ibBytes, gl.STREAM_DRAW)

		indexOffset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				continue
			}
			gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.TextureID()))
			gl.DrawElementsWithOffset(gl.TRIANGLES, int32(cmd.ElementCount()), gl.UNSIGNED_SHORT, uintptr(indexOffset))
			indexOffset += cmd.ElementCount() * 2
		}
	}
	gl.Disable(gl.BLEND)
}
