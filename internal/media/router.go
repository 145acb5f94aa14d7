package media

import (
	"context"
	"fmt"
)

// Router sends audio requests to one Devices and video requests to
// another, merging the tracks when both are asked for.
type Router struct {
	Audio Devices
	Video Devices
}

// GetUserMedia implements Devices.
func (r Router) GetUserMedia(ctx context.Context, c Constraints) (*Stream, error) {
	if !c.Audio && !c.Video {
		return nil, ErrNoConstraints
	}

	var tracks []Track
	if c.Audio {
		if r.Audio == nil {
			return nil, fmt.Errorf("%w: no audio backend", ErrDeviceUnavailable)
		}
		s, err := r.Audio.GetUserMedia(ctx, Constraints{Audio: true})
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, s.Tracks()...)
	}
	if c.Video {
		if r.Video == nil {
			NewStream(tracks...).Stop()
			return nil, fmt.Errorf("%w: no video backend", ErrDeviceUnavailable)
		}
		s, err := r.Video.GetUserMedia(ctx, Constraints{Video: true})
		if err != nil {
			NewStream(tracks...).Stop()
			return nil, err
		}
		tracks = append(tracks, s.Tracks()...)
	}
	return NewStream(tracks...), nil
}
