package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/logging"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/media/mediatest"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
)

type photoFixture struct {
	ctrl    *PhotoController
	devices *mediatest.Devices
	store   *blob.Store
	sent    *notify.Recorder
}

func newPhotoFixture(t *testing.T) *photoFixture {
	t.Helper()
	f := &photoFixture{
		devices: mediatest.NewDevices(),
		store:   blob.NewStore(),
		sent:    &notify.Recorder{},
	}
	f.ctrl = NewPhotoController(Deps{
		Devices:  f.devices,
		Store:    f.store,
		Notifier: f.sent,
		Logger:   logging.Discard(),
	}, DefaultPhotoOptions())
	t.Cleanup(f.ctrl.Close)
	return f
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPhoto_NotReadyThenCapture(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	if err := f.ctrl.StartCamera(ctx); err != nil {
		t.Fatalf("StartCamera: %v", err)
	}

	res, err := f.ctrl.TakePhoto(ctx)
	if !errors.Is(err, ErrNotReady) || res != nil {
		t.Fatalf("TakePhoto at 0x0 = %v, %v", res, err)
	}
	if f.store.Len() != 0 {
		t.Fatal("resource created before video was ready")
	}
	if sent := f.sent.Sent(); len(sent) != 1 || sent[0].Message != "Video not ready yet, please wait a moment" {
		t.Errorf("notifications = %+v", sent)
	}

	f.devices.LastVideoTrack().SetFrame(solid(640, 480, color.RGBA{R: 200, A: 255}))

	res, err = f.ctrl.TakePhoto(ctx)
	if err != nil {
		t.Fatalf("TakePhoto: %v", err)
	}
	if res.Width != 640 || res.Height != 480 {
		t.Errorf("photo is %dx%d", res.Width, res.Height)
	}
	if res.FileName != model.PhotoFileName || res.MIMEType != PNGMIMEType {
		t.Errorf("resource = %s %s", res.FileName, res.MIMEType)
	}
	if f.store.Len() != 1 {
		t.Errorf("store has %d resources, want 1", f.store.Len())
	}

	b, err := f.store.Get(blob.IDFromURL(res.URL))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(640, 480) {
		t.Errorf("decoded size = %v", got)
	}
	if f.ctrl.State().Photo != res {
		t.Error("state does not hold the new photo")
	}
}

func TestPhoto_TakeBeforeStart(t *testing.T) {
	f := newPhotoFixture(t)

	res, err := f.ctrl.TakePhoto(context.Background())
	if res != nil {
		t.Error("photo taken with the camera off")
	}
	if KindOf(err) != KindNotReady {
		t.Errorf("kind = %v, want not ready", KindOf(err))
	}
	if f.store.Len() != 0 {
		t.Error("resource created")
	}
}

func TestPhoto_StopReleasesTracks(t *testing.T) {
	f := newPhotoFixture(t)

	if err := f.ctrl.StartCamera(context.Background()); err != nil {
		t.Fatalf("StartCamera: %v", err)
	}
	f.ctrl.StopCamera()
	f.ctrl.StopCamera()

	if f.ctrl.State().CameraOn {
		t.Error("camera still on")
	}
	for _, s := range f.devices.Streams() {
		for _, tr := range s.Tracks() {
			if !tr.Stopped() {
				t.Errorf("track %q still live", tr.Label())
			}
		}
	}
	if _, ok := f.ctrl.PreviewFrame(); ok {
		t.Error("preview still attached")
	}
}

func TestPhoto_ReplacesPreviousPhoto(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	if err := f.ctrl.StartCamera(ctx); err != nil {
		t.Fatalf("StartCamera: %v", err)
	}
	f.devices.LastVideoTrack().SetFrame(solid(32, 24, color.White))

	first, err := f.ctrl.TakePhoto(ctx)
	if err != nil {
		t.Fatalf("TakePhoto: %v", err)
	}
	second, err := f.ctrl.TakePhoto(ctx)
	if err != nil {
		t.Fatalf("TakePhoto: %v", err)
	}
	if first.URL == second.URL {
		t.Error("second photo reused the first URL")
	}
	if f.ctrl.State().Photo != second {
		t.Error("state holds the old photo")
	}
	// Replaced photos stay resolvable.
	if _, err := f.store.Get(blob.IDFromURL(first.URL)); err != nil {
		t.Errorf("first photo: %v", err)
	}
}

func TestPhoto_StopWhileCapturing(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	for range 200 {
		if err := f.ctrl.StartCamera(ctx); err != nil {
			t.Fatalf("StartCamera: %v", err)
		}
		f.devices.LastVideoTrack().SetFrame(solid(4, 3, color.Black))

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			f.ctrl.PreviewFrame()
		}()
		go func() {
			defer wg.Done()
			f.ctrl.TakePhoto(ctx)
		}()
		go func() {
			defer wg.Done()
			f.ctrl.StopCamera()
		}()
		wg.Wait()

		if f.ctrl.State().CameraOn {
			t.Fatal("camera still on after StopCamera")
		}
	}

	for _, s := range f.devices.Streams() {
		if s.Active() {
			t.Fatal("stream left active")
		}
	}
}

func TestPhoto_StartErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(d *mediatest.Devices)
		wantErr error
		wantMsg string
	}{
		{
			name:    "denied",
			setup:   func(d *mediatest.Devices) { d.VideoErr = media.ErrAccessDenied },
			wantErr: media.ErrAccessDenied,
			wantMsg: "Could not access camera: " + media.ErrAccessDenied.Error(),
		},
		{
			name:    "no video track",
			setup:   func(d *mediatest.Devices) { d.OmitVideo = true },
			wantErr: ErrNoVideoTrack,
			wantMsg: "No video tracks found in stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPhotoFixture(t)
			tt.setup(f.devices)

			err := f.ctrl.StartCamera(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if KindOf(err) != KindAccess {
				t.Errorf("kind = %v", KindOf(err))
			}
			if f.ctrl.State().CameraOn {
				t.Error("camera on after failure")
			}
			sent := f.sent.Sent()
			if len(sent) != 1 || sent[0].Message != tt.wantMsg {
				t.Errorf("notifications = %+v", sent)
			}
			for _, s := range f.devices.Streams() {
				if s.Active() {
					t.Error("stream left active")
				}
			}
		})
	}
}
