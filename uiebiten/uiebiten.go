// Package uiebiten is the ebitengine frontend (selected with -backend=ebiten),
// generalizing the shape of RNG999-gones's internal/app.Application — a
// graphics-backend-driven game loop fed by an emulator Update/Render split —
// onto nescore's Console, trading that repo's custom graphics.Backend
// abstraction for ebiten's own ebiten.Game interface directly.
package uiebiten

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/sync/errgroup"

	"nescore/nes"
)

const (
	screenWidth  = 256
	screenHeight = 240
)

// frameSink implements nes.VideoDevice, handing completed frames to the
// ebiten game loop without any synchronization: RunFrame and Draw both run
// on ebiten's single update goroutine, same as gones' single-threaded
// SetEmulatorUpdateFunc callback.
type frameSink struct {
	img *image.RGBA
}

func newFrameSink() *frameSink {
	return &frameSink{img: image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))}
}

func (f *frameSink) SetBuffer(framebuffer *[256 * 240]uint32) {
	for i, px := range framebuffer {
		r := byte(px >> 16)
		g := byte(px >> 8)
		b := byte(px)
		f.img.SetRGBA(i%screenWidth, i/screenWidth, color.RGBA{r, g, b, 0xff})
	}
}

// game implements ebiten.Game, driving one emulated frame per ebiten Update.
type game struct {
	console *nes.Console
	sink    *frameSink
	picture *ebiten.Image
	group   *errgroup.Group
}

func newGame(console *nes.Console, group *errgroup.Group) *game {
	sink := newFrameSink()
	console.PPU.SetVideoDevice(sink)
	return &game{
		console: console,
		sink:    sink,
		picture: ebiten.NewImage(screenWidth, screenHeight),
		group:   group,
	}
}

func (g *game) Update() error {
	applyKeys(g.console)
	g.console.RunFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.picture.WritePixels(g.sink.img.Pix)
	screen.DrawImage(g.picture, nil)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %0.1f", ebiten.ActualFPS()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// Start runs console under ebiten's game loop until the window closes.
// audioDone, if non-nil, is an error channel fed by an audio-drain goroutine
// running concurrently with the game loop; an errgroup supervises both so a
// failure on either side tears the whole frontend down together, the same
// supervision shape RNG999-gones gets for free from its single update
// callback but that a second goroutine here requires explicitly.
func Start(console *nes.Console, width, height int, audioDone <-chan error) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("nescore")

	group := new(errgroup.Group)
	if audioDone != nil {
		group.Go(func() error {
			if err := <-audioDone; err != nil {
				return fmt.Errorf("uiebiten: audio: %w", err)
			}
			return nil
		})
	}

	g := newGame(console, group)
	runErr := ebiten.RunGame(g)
	if err := group.Wait(); err != nil {
		glog.Errorf("uiebiten: audio goroutine: %v", err)
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		glog.Errorf("uiebiten: run: %v", runErr)
	}
	return runErr
}

func applyKeys(console *nes.Console) {
	type mapping struct {
		key    ebiten.Key
		button nes.Button
	}
	mappings := []mapping{
		{ebiten.KeyD, nes.ButtonRight},
		{ebiten.KeyA, nes.ButtonLeft},
		{ebiten.KeyS, nes.ButtonDown},
		{ebiten.KeyW, nes.ButtonUp},
		{ebiten.KeyG, nes.ButtonStart},
		{ebiten.KeyF, nes.ButtonSelect},
		{ebiten.KeyH, nes.ButtonB},
		{ebiten.KeyJ, nes.ButtonA},
	}
	for _, m := range mappings {
		console.SetButtonState(0, m.button, ebiten.IsKeyPressed(m.key))
	}
}
