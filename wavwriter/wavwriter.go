// Package wavwriter buffers an APU's mixed output in memory and flushes it
// to a WAV file on Close, generalizing Gopher2600's wavwriter/wav.go (which
// drains a television.AudioMixer) onto nescore's chan float32 APU output,
// and switching its PCM encoder from youpy/go-wav to go-audio/wav + the
// matching go-audio/audio buffer type.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const sampleRate = 44100
const bitDepth = 16

// WavWriter accumulates signed 16-bit PCM samples read from an APU audio
// channel and writes them out as a mono WAV file when Close is called.
type WavWriter struct {
	file    *os.File
	encoder *wav.Encoder
	samples []int
}

// New creates the output file and its WAV encoder immediately, matching
// Gopher2600's "fail fast at construction" shape for this kind of sink.
func New(filename string) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wavwriter: create %s: %w", filename, err)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	return &WavWriter{file: f, encoder: enc}, nil
}

// Drain reads from the APU's sample channel until it's closed, converting
// each float32 in [-1, 1] to signed 16-bit PCM. Intended to run in its own
// goroutine for the lifetime of a "-dump-audio" session.
func (w *WavWriter) Drain(samples <-chan float32) {
	for s := range samples {
		w.samples = append(w.samples, int(s*32767))
	}
}

// Close writes the buffered samples and closes the underlying file. Like
// the teacher's EndMixing, this is a whole-buffer-at-once writer: fine for
// the short captures spec.md's debugging tooling targets, not for long runs.
func (w *WavWriter) Close() error {
	buf := &audio.IntBuffer{
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:   w.samples,
	}
	if err := w.encoder.Write(buf); err != nil {
		w.file.Close()
		return fmt.Errorf("wavwriter: write: %w", err)
	}
	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("wavwriter: close encoder: %w", err)
	}
	return w.file.Close()
}
