//go:build linux

package v4l

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/handiism/capture-studio/internal/media"
	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
)

// ErrNoFrame is returned by Frame before the first frame decodes.
var ErrNoFrame = errors.New("v4l: no frame decoded yet")

// Devices opens the configured camera for every video request.
type Devices struct {
	config Config
	log    *slog.Logger
}

// NewDevices creates Video4Linux-backed devices.
func NewDevices(config Config, log *slog.Logger) *Devices {
	if log == nil {
		log = slog.Default()
	}
	return &Devices{config: config, log: log}
}

// GetUserMedia implements media.Devices. Only video is supported.
func (d *Devices) GetUserMedia(ctx context.Context, c media.Constraints) (*media.Stream, error) {
	if c.Audio {
		return nil, fmt.Errorf("%w: v4l has no audio input", media.ErrDeviceUnavailable)
	}
	if !c.Video {
		return nil, media.ErrNoConstraints
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dev, err := device.Open(d.config.Device, device.WithPixFormat(v4l2.PixFormat{
		PixelFormat: v4l2.PixelFmtMJPEG,
		Width:       uint32(d.config.Width),
		Height:      uint32(d.config.Height),
	}))
	if err != nil {
		return nil, classify(d.config.Device, err)
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(streamCtx); err != nil {
		cancel()
		dev.Close()
		return nil, classify(d.config.Device, err)
	}

	t := &Track{
		label:  d.config.Device,
		log:    d.log,
		dev:    dev,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.decode(streamCtx, dev.GetOutput())
	return media.NewStream(t), nil
}

// Track is a live camera capture.
type Track struct {
	label  string
	log    *slog.Logger
	dev    *device.Device
	cancel context.CancelFunc
	done   chan struct{}

	stopOnce sync.Once

	mu      sync.Mutex
	frame   image.Image
	stopped bool
}

func (t *Track) Kind() media.TrackKind { return media.KindVideo }
func (t *Track) Label() string         { return t.label }

// Dimensions implements media.VideoTrack.
func (t *Track) Dimensions() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frame == nil {
		return 0, 0
	}
	b := t.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Frame implements media.VideoTrack.
func (t *Track) Frame() (image.Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frame == nil {
		return nil, ErrNoFrame
	}
	return t.frame, nil
}

// Stop ends streaming and closes the device.
func (t *Track) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()

		t.cancel()
		<-t.done
		if err := t.dev.Close(); err != nil {
			t.log.Debug("v4l close", "device", t.label, "error", err)
		}
	})
}

// Stopped implements media.Track.
func (t *Track) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Track) decode(ctx context.Context, frames <-chan []byte) {
	defer close(t.done)

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-frames:
			if !ok {
				return
			}
			if len(data) == 0 {
				continue
			}
			img, err := jpeg.Decode(bytes.NewReader(data))
			if err != nil {
				t.log.Debug("skipping undecodable frame", "device", t.label, "error", err)
				continue
			}
			t.mu.Lock()
			t.frame = img
			t.mu.Unlock()
		}
	}
}

func classify(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %v", media.ErrAccessDenied, path, err)
	}
	return fmt.Errorf("%w: %s: %v", media.ErrDeviceUnavailable, path, err)
}
