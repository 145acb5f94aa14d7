package media_test

import (
	"context"
	"errors"
	"testing"

	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/media/mediatest"
)

func TestRouter_MergesTracks(t *testing.T) {
	mic := mediatest.NewDevices()
	cam := mediatest.NewDevices()
	r := media.Router{Audio: mic, Video: cam}

	stream, err := r.GetUserMedia(context.Background(), media.Constraints{Audio: true, Video: true})
	if err != nil {
		t.Fatalf("GetUserMedia() error = %v", err)
	}
	if len(stream.AudioTracks()) != 1 || len(stream.VideoTracks()) != 1 {
		t.Errorf("got %d audio and %d video tracks, want 1 and 1",
			len(stream.AudioTracks()), len(stream.VideoTracks()))
	}
}

func TestRouter_VideoFailureReleasesAudio(t *testing.T) {
	mic := mediatest.NewDevices()
	cam := mediatest.NewDevices()
	cam.VideoErr = media.ErrAccessDenied
	r := media.Router{Audio: mic, Video: cam}

	_, err := r.GetUserMedia(context.Background(), media.Constraints{Audio: true, Video: true})
	if !errors.Is(err, media.ErrAccessDenied) {
		t.Fatalf("error = %v, want ErrAccessDenied", err)
	}
	if !mic.LastAudioTrack().Stopped() {
		t.Error("audio track should be stopped when the video request fails")
	}
}

func TestRouter_MissingBackend(t *testing.T) {
	r := media.Router{Audio: mediatest.NewDevices()}

	_, err := r.GetUserMedia(context.Background(), media.Constraints{Video: true})
	if !errors.Is(err, media.ErrDeviceUnavailable) {
		t.Errorf("error = %v, want ErrDeviceUnavailable", err)
	}

	_, err = r.GetUserMedia(context.Background(), media.Constraints{})
	if !errors.Is(err, media.ErrNoConstraints) {
		t.Errorf("error = %v, want ErrNoConstraints", err)
	}
}
