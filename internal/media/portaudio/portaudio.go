// Package portaudio captures microphone audio through PortAudio.
//
// PortAudio needs its native library at build and run time:
//
//	macos:  brew install portaudio
//	debian: sudo apt-get install portaudio19-dev
package portaudio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/handiism/capture-studio/internal/media"
)

// Config selects the capture format.
type Config struct {
	SampleRate      int
	FramesPerBuffer int
	InputChannels   int
}

// DefaultConfig returns 44.1 kHz mono with 1024-frame buffers.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		FramesPerBuffer: 1024,
		InputChannels:   1,
	}
}

// Devices opens the default input device for every audio request.
type Devices struct {
	config Config
	log    *slog.Logger
}

// NewDevices creates PortAudio-backed devices.
func NewDevices(config Config, log *slog.Logger) *Devices {
	if log == nil {
		log = slog.Default()
	}
	return &Devices{config: config, log: log}
}

// GetUserMedia implements media.Devices. Only audio is supported.
func (d *Devices) GetUserMedia(ctx context.Context, c media.Constraints) (*media.Stream, error) {
	if c.Video {
		return nil, fmt.Errorf("%w: portaudio has no video input", media.ErrDeviceUnavailable)
	}
	if !c.Audio {
		return nil, media.ErrNoConstraints
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	track, err := openTrack(d.config, d.log)
	if err != nil {
		return nil, err
	}
	return media.NewStream(track), nil
}

// Track is a live microphone capture.
type Track struct {
	media.Broadcaster

	config Config
	log    *slog.Logger
	stream *portaudio.Stream
	buffer []int16

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	stopped bool
}

func openTrack(config Config, log *slog.Logger) (*Track, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrDeviceUnavailable, err)
	}

	buffer := make([]int16, config.FramesPerBuffer*config.InputChannels)
	stream, err := portaudio.OpenDefaultStream(
		config.InputChannels,
		0,
		float64(config.SampleRate),
		config.FramesPerBuffer,
		buffer,
	)
	if err != nil {
		portaudio.Terminate()
		return nil, classify(err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, classify(err)
	}

	t := &Track{
		config: config,
		log:    log,
		stream: stream,
		buffer: buffer,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.capture()
	return t, nil
}

func (t *Track) Kind() media.TrackKind { return media.KindAudio }
func (t *Track) Label() string         { return "default input" }

// Format implements media.AudioTrack.
func (t *Track) Format() media.Format {
	return media.Format{
		SampleRate: t.config.SampleRate,
		Channels:   t.config.InputChannels,
		BitDepth:   16,
	}
}

// Stop releases the device. It blocks until the capture loop exits.
func (t *Track) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()

		close(t.quit)
		<-t.done

		if err := t.stream.Stop(); err != nil {
			t.log.Debug("portaudio stream stop", "error", err)
		}
		if err := t.stream.Close(); err != nil {
			t.log.Debug("portaudio stream close", "error", err)
		}
		portaudio.Terminate()
	})
}

// Stopped implements media.Track.
func (t *Track) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Track) capture() {
	defer close(t.done)
	defer t.Close()

	for {
		select {
		case <-t.quit:
			return
		default:
		}

		if err := t.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				t.log.Debug("portaudio input overflowed")
				continue
			}
			// The device went away; ending the feed lets consumers finalize.
			t.log.Error("portaudio read failed", "error", err)
			return
		}

		if dropped := t.Publish(t.buffer); dropped > 0 {
			t.log.Debug("dropped audio frame", "subscribers", dropped)
		}
	}
}

// classify maps PortAudio errors onto the media error kinds. Only host
// errors reporting a refused permission count as access denied.
func classify(err error) error {
	if errors.Is(err, fs.ErrPermission) || strings.Contains(strings.ToLower(err.Error()), "permission") {
		return fmt.Errorf("%w: %v", media.ErrAccessDenied, err)
	}
	return fmt.Errorf("%w: %v", media.ErrDeviceUnavailable, err)
}
