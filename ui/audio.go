package ui

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const sampleRate = 44100

// audio drains the APU's mixed-sample channel into a portaudio output
// stream, kept from the teacher's ui/audio.go nearly unchanged: this is
// exactly the concern portaudio exists to serve.
type audio struct {
	stream  *portaudio.Stream
	channel chan float32
}

func newAudio() *audio {
	return &audio{channel: make(chan float32, sampleRate)}
}

func (a *audio) start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("ui: initialize portaudio: %w", err)
	}
	cb := func(out []float32) {
		for i := range out {
			select {
			case x := <-a.channel:
				out[i] = x * 0.1
			default:
				out[i] = 0
			}
		}
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, 0, cb)
	if err != nil {
		return fmt.Errorf("ui: open audio stream: %w", err)
	}
	a.stream = stream
	if err := stream.Start(); err != nil {
		return fmt.Errorf("ui: start audio stream: %w", err)
	}
	return nil
}

func (a *audio) terminate() {
	a.stream.Close()
	portaudio.Terminate()
}
