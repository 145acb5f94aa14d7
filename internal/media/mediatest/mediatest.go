// Package mediatest provides in-memory capture devices for tests.
package mediatest

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/handiism/capture-studio/internal/media"
)

// ErrNoFrame is returned by VideoTrack.Frame before SetFrame was called.
var ErrNoFrame = errors.New("mediatest: no frame yet")

// AudioTrack is a fake microphone track fed through Push.
type AudioTrack struct {
	media.Broadcaster

	format media.Format

	mu      sync.Mutex
	stopped bool
}

// NewAudioTrack creates a live fake audio track.
func NewAudioTrack(format media.Format) *AudioTrack {
	return &AudioTrack{format: format}
}

func (t *AudioTrack) Kind() media.TrackKind { return media.KindAudio }
func (t *AudioTrack) Label() string         { return "fake microphone" }
func (t *AudioTrack) Format() media.Format  { return t.format }

// Push publishes one PCM frame to every subscriber.
func (t *AudioTrack) Push(frame []int16) {
	t.Publish(frame)
}

// Stop implements media.Track.
func (t *AudioTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.Close()
}

// Stopped implements media.Track.
func (t *AudioTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// VideoTrack is a fake camera track whose frames are set by the test.
type VideoTrack struct {
	mu      sync.Mutex
	frame   image.Image
	stopped bool
}

// NewVideoTrack creates a live fake video track with no frame yet, so
// its dimensions start at 0x0.
func NewVideoTrack() *VideoTrack {
	return &VideoTrack{}
}

func (t *VideoTrack) Kind() media.TrackKind { return media.KindVideo }
func (t *VideoTrack) Label() string         { return "fake camera" }

// SetFrame installs the current frame. Its bounds become the track's
// dimensions.
func (t *VideoTrack) SetFrame(img image.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = img
}

// Dimensions implements media.VideoTrack.
func (t *VideoTrack) Dimensions() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frame == nil {
		return 0, 0
	}
	b := t.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Frame implements media.VideoTrack.
func (t *VideoTrack) Frame() (image.Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frame == nil {
		return nil, ErrNoFrame
	}
	return t.frame, nil
}

// Stop implements media.Track.
func (t *VideoTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped implements media.Track.
func (t *VideoTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Devices is a fake media.Devices.
//
// Each request builds a fresh stream unless AudioTrack or VideoTrack is
// preset. Setting AudioErr or VideoErr makes the matching request fail.
type Devices struct {
	Format media.Format

	AudioErr error
	VideoErr error

	// OmitVideo grants a video request with a stream that has no video
	// track.
	OmitVideo bool

	mu       sync.Mutex
	audio    *AudioTrack
	video    *VideoTrack
	streams  []*media.Stream
	requests int
}

// NewDevices creates fake devices producing 16-bit mono 8 kHz audio.
func NewDevices() *Devices {
	return &Devices{
		Format: media.Format{SampleRate: 8000, Channels: 1, BitDepth: 16},
	}
}

// GetUserMedia implements media.Devices.
func (d *Devices) GetUserMedia(ctx context.Context, c media.Constraints) (*media.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests++

	if !c.Audio && !c.Video {
		return nil, media.ErrNoConstraints
	}

	var tracks []media.Track
	if c.Audio {
		if d.AudioErr != nil {
			return nil, d.AudioErr
		}
		d.audio = NewAudioTrack(d.Format)
		tracks = append(tracks, d.audio)
	}
	if c.Video {
		if d.VideoErr != nil {
			return nil, d.VideoErr
		}
		if !d.OmitVideo {
			d.video = NewVideoTrack()
			tracks = append(tracks, d.video)
		}
	}

	stream := media.NewStream(tracks...)
	d.streams = append(d.streams, stream)
	return stream, nil
}

// LastAudioTrack returns the most recently granted audio track.
func (d *Devices) LastAudioTrack() *AudioTrack {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.audio
}

// LastVideoTrack returns the most recently granted video track.
func (d *Devices) LastVideoTrack() *VideoTrack {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.video
}

// Streams returns every stream handed out so far.
func (d *Devices) Streams() []*media.Stream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*media.Stream(nil), d.streams...)
}

// Requests returns how many times GetUserMedia was called.
func (d *Devices) Requests() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests
}
