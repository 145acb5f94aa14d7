// Package analyser exposes frequency-domain byte samples of a live audio
// track, the data behind the level meter.
//
// The analysis follows the usual analyser-node recipe: the most recent
// FFTSize samples are Blackman-windowed, transformed, normalized by the
// FFT size, converted to decibels and mapped linearly from
// [MinDecibels, MaxDecibels] onto [0,255]. Consecutive readings are
// independent; no smoothing is applied.
package analyser

import (
	"fmt"
	"math"
	"sync"

	"github.com/handiism/capture-studio/internal/media"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Decibel range mapped onto byte values.
const (
	MinDecibels = -100.0
	MaxDecibels = -30.0
)

// DefaultFFTSize gives 32 frequency bins.
const DefaultFFTSize = 64

// Analyser samples the spectrum of an audio track on demand.
type Analyser struct {
	fftSize  int
	channels int
	fft      *fourier.FFT

	mu   sync.Mutex
	ring []float64
	pos  int

	cancel func()
	done   chan struct{}
}

// New starts analysing track. fftSize must be a power of two >= 32.
func New(track media.AudioTrack, fftSize int) (*Analyser, error) {
	a, err := newAnalyser(fftSize, track.Format().Channels)
	if err != nil {
		return nil, err
	}

	frames, cancel := track.Subscribe()
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.consume(frames)
	return a, nil
}

func newAnalyser(fftSize, channels int) (*Analyser, error) {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analyser: fft size %d is not a power of two >= 32", fftSize)
	}
	if channels < 1 {
		channels = 1
	}
	return &Analyser{
		fftSize:  fftSize,
		channels: channels,
		fft:      fourier.NewFFT(fftSize),
		ring:     make([]float64, fftSize),
	}, nil
}

// FFTSize returns the transform length.
func (a *Analyser) FFTSize() int { return a.fftSize }

// FrequencyBinCount returns how many values ByteFrequencyData yields.
func (a *Analyser) FrequencyBinCount() int { return a.fftSize / 2 }

// ByteFrequencyData returns the current spectrum, one byte per bin.
func (a *Analyser) ByteFrequencyData() []byte {
	a.mu.Lock()
	samples := make([]float64, a.fftSize)
	// Oldest sample first.
	n := copy(samples, a.ring[a.pos:])
	copy(samples[n:], a.ring[:a.pos])
	a.mu.Unlock()

	window.Blackman(samples)
	coeffs := a.fft.Coefficients(nil, samples)

	out := make([]byte, a.FrequencyBinCount())
	for i := range out {
		mag := cmplxAbs(coeffs[i]) / float64(a.fftSize)
		out[i] = toByte(mag)
	}
	return out
}

// Close stops consuming the track. The track itself is not stopped.
func (a *Analyser) Close() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
}

func (a *Analyser) consume(frames <-chan []int16) {
	defer close(a.done)
	for frame := range frames {
		a.write(frame)
	}
}

// write mixes interleaved PCM down to mono and appends it to the ring.
func (a *Analyser) write(frame []int16) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i+a.channels <= len(frame); i += a.channels {
		var sum float64
		for c := 0; c < a.channels; c++ {
			sum += float64(frame[i+c])
		}
		a.ring[a.pos] = sum / float64(a.channels) / 32768
		a.pos = (a.pos + 1) % a.fftSize
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func toByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - MinDecibels) / (MaxDecibels - MinDecibels)
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	}
	return byte(scaled)
}
