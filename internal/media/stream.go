package media

import (
	"context"
	"image"
)

// TrackKind distinguishes audio from video tracks.
type TrackKind string

const (
	KindAudio TrackKind = "audio"
	KindVideo TrackKind = "video"
)

// Track is a single live source inside a Stream.
type Track interface {
	Kind() TrackKind
	Label() string

	// Stop releases the underlying device. It is safe to call more than once.
	Stop()

	// Stopped reports whether Stop has been called.
	Stopped() bool
}

// Format describes interleaved signed 16-bit PCM.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// AudioTrack is a Track that produces PCM frames.
type AudioTrack interface {
	Track
	Format() Format

	// Subscribe returns a channel of PCM frames and a function that ends
	// the subscription. The channel is closed when the subscription ends
	// or the track stops.
	Subscribe() (<-chan []int16, func())
}

// VideoTrack is a Track that produces still frames on demand.
type VideoTrack interface {
	Track

	// Dimensions returns the native frame size, or 0x0 while no frame
	// has been decoded yet.
	Dimensions() (width, height int)

	// Frame returns the most recent frame.
	Frame() (image.Image, error)
}

// Constraints selects which kinds of track GetUserMedia should return.
type Constraints struct {
	Audio bool
	Video bool
}

// Devices grants access to capture devices.
//
// GetUserMedia blocks until access is granted or refused. There is no
// internal timeout; callers bound it through ctx if they need one.
type Devices interface {
	GetUserMedia(ctx context.Context, c Constraints) (*Stream, error)
}

// Stream is an ordered set of tracks handed out by a device.
type Stream struct {
	tracks []Track
}

// NewStream groups tracks into a Stream.
func NewStream(tracks ...Track) *Stream {
	return &Stream{tracks: tracks}
}

// Tracks returns every track in the stream.
func (s *Stream) Tracks() []Track {
	return append([]Track(nil), s.tracks...)
}

// AudioTracks returns the audio tracks in the stream.
func (s *Stream) AudioTracks() []AudioTrack {
	var out []AudioTrack
	for _, t := range s.tracks {
		if at, ok := t.(AudioTrack); ok && t.Kind() == KindAudio {
			out = append(out, at)
		}
	}
	return out
}

// VideoTracks returns the video tracks in the stream.
func (s *Stream) VideoTracks() []VideoTrack {
	var out []VideoTrack
	for _, t := range s.tracks {
		if vt, ok := t.(VideoTrack); ok && t.Kind() == KindVideo {
			out = append(out, vt)
		}
	}
	return out
}

// Stop stops every track.
func (s *Stream) Stop() {
	for _, t := range s.tracks {
		t.Stop()
	}
}

// Active reports whether any track is still live.
func (s *Stream) Active() bool {
	for _, t := range s.tracks {
		if !t.Stopped() {
			return true
		}
	}
	return false
}
