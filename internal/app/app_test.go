package app

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/handiism/capture-studio/internal/config"
	"github.com/handiism/capture-studio/internal/logging"
	"github.com/handiism/capture-studio/internal/media/mediatest"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
)

func newTestApp(t *testing.T, serve bool) (*App, *mediatest.Devices) {
	t.Helper()
	settings := config.DefaultSettings()
	settings.ServeResources = serve
	settings.DownloadsPath = t.TempDir()

	devices := mediatest.NewDevices()
	a := New(Options{
		Settings: settings,
		Devices:  devices,
		Notifier: &notify.Recorder{},
		Logger:   logging.Discard(),
	})
	t.Cleanup(func() { a.Close(context.Background()) })
	return a, devices
}

func TestApp_Navigation(t *testing.T) {
	a, _ := newTestApp(t, false)

	if a.Page() != model.PageAudio {
		t.Fatalf("default page = %v, want audio", a.Page())
	}
	a.Navigate(model.PagePhoto)
	if got := a.State().Page; got != model.PagePhoto {
		t.Errorf("page = %v, want photo", got)
	}
	a.Navigate(a.Page().Next())
	if a.Page() != model.PageAudio {
		t.Errorf("Next from photo = %v", a.Page())
	}
}

func TestApp_NavigationKeepsSessions(t *testing.T) {
	a, _ := newTestApp(t, false)
	ctx := context.Background()

	if err := a.Photo.StartCamera(ctx); err != nil {
		t.Fatal(err)
	}
	a.Navigate(model.PageAudio)
	if !a.State().Photo.CameraOn {
		t.Error("navigation stopped the camera")
	}
}

func TestApp_ServesResources(t *testing.T) {
	a, devices := newTestApp(t, true)
	ctx := context.Background()

	if a.ServerURL() == "" {
		t.Fatal("server not started")
	}
	if err := a.Photo.StartCamera(ctx); err != nil {
		t.Fatal(err)
	}
	devices.LastVideoTrack().SetFrame(testFrame(8, 6))
	res, err := a.Photo.TakePhoto(ctx)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(res.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || len(body) != res.Size {
		t.Errorf("GET %s = %d, %d bytes", res.URL, resp.StatusCode, len(body))
	}

	path, err := a.Downloads.Save(ctx, res)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path == "" {
		t.Error("empty path")
	}
}

func TestApp_CloseReleasesEverything(t *testing.T) {
	a, devices := newTestApp(t, true)
	ctx := context.Background()

	if err := a.Audio.StartRecording(ctx); err != nil {
		t.Fatal(err)
	}
	if err := a.Photo.StartCamera(ctx); err != nil {
		t.Fatal(err)
	}

	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	st := a.State()
	if st.Audio.Recording || st.Photo.CameraOn {
		t.Errorf("sessions still active: %+v", st)
	}
	for _, s := range devices.Streams() {
		if s.Active() {
			t.Error("stream still active after Close")
		}
	}
	if a.Store.Len() != 0 {
		t.Errorf("store holds %d resources after Close", a.Store.Len())
	}
}
