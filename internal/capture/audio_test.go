package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/logging"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/media/mediatest"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
)

const (
	testFrameInterval = 16 * time.Millisecond
	testTimerInterval = time.Second
)

type audioFixture struct {
	ctrl    *AudioController
	devices *mediatest.Devices
	sched   *manualScheduler
	store   *blob.Store
	sent    *notify.Recorder
}

func newAudioFixture(t *testing.T) *audioFixture {
	t.Helper()
	f := &audioFixture{
		devices: mediatest.NewDevices(),
		sched:   &manualScheduler{},
		store:   blob.NewStore(),
		sent:    &notify.Recorder{},
	}
	f.ctrl = NewAudioController(Deps{
		Devices:   f.devices,
		Store:     f.store,
		Scheduler: f.sched,
		Notifier:  f.sent,
		Logger:    logging.Discard(),
	}, AudioOptions{
		FFTSize:       64,
		FrameInterval: testFrameInterval,
		TimerInterval: testTimerInterval,
	})
	t.Cleanup(f.ctrl.Close)
	return f
}

func TestAudio_TimerTicksThenStop(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if st := f.ctrl.State(); !st.Recording || st.Elapsed != 0 {
		t.Fatalf("state after start = %+v", st)
	}

	for range 3 {
		f.sched.Fire(testTimerInterval)
	}
	if got := f.ctrl.State().Elapsed; got != 3 {
		t.Fatalf("elapsed = %d, want 3", got)
	}

	res := f.ctrl.StopRecording()
	if res == nil {
		t.Fatal("StopRecording returned no resource")
	}
	if res.FileName != model.RecordingFileName || res.MIMEType != "audio/wav" {
		t.Errorf("resource = %s %s", res.FileName, res.MIMEType)
	}

	f.sched.Fire(testTimerInterval)
	st := f.ctrl.State()
	if st.Recording {
		t.Error("still recording after stop")
	}
	if st.Elapsed != 3 {
		t.Errorf("elapsed = %d after stop, want 3", st.Elapsed)
	}
	if st.Result != res {
		t.Error("state result is not the returned resource")
	}
	if f.store.Len() != 1 {
		t.Errorf("store has %d resources, want 1", f.store.Len())
	}
	if f.sched.Live() != 0 {
		t.Errorf("%d tasks still live", f.sched.Live())
	}
}

func TestAudio_StopWithoutDataStillProducesResource(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	res := f.ctrl.StopRecording()
	if res == nil {
		t.Fatal("no resource")
	}

	b, err := f.store.Get(blob.IDFromURL(res.URL))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(b.Data) < 44 || string(b.Data[:4]) != "RIFF" {
		t.Errorf("recording is not a WAV file (%d bytes)", len(b.Data))
	}
}

func TestAudio_StopWhenIdleIsNoop(t *testing.T) {
	f := newAudioFixture(t)

	if res := f.ctrl.StopRecording(); res != nil {
		t.Errorf("StopRecording when idle = %v, want nil", res)
	}
	if f.store.Len() != 0 {
		t.Errorf("store has %d resources", f.store.Len())
	}
	if f.devices.Requests() != 0 {
		t.Error("devices were requested")
	}
}

func TestAudio_StopReleasesTracks(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	track := f.devices.LastAudioTrack()
	for range 4 {
		track.Push(make([]int16, 256))
	}
	f.ctrl.StopRecording()

	for _, s := range f.devices.Streams() {
		for _, tr := range s.Tracks() {
			if !tr.Stopped() {
				t.Errorf("track %q still live", tr.Label())
			}
		}
	}
}

func TestAudio_LevelsFollowInput(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	track := f.devices.LastAudioTrack()

	// A full-scale square wave is loud in every bin.
	frame := make([]int16, 64)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 32767
		} else {
			frame[i] = -32768
		}
	}
	track.Push(frame)

	deadline := time.Now().Add(2 * time.Second)
	for {
		f.sched.Fire(testFrameInterval)
		if f.ctrl.State().Levels.Max() > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("levels never rose above zero")
		}
		time.Sleep(time.Millisecond)
	}

	for i, v := range f.ctrl.State().Levels {
		if v < 0 || v > 100 {
			t.Errorf("level[%d] = %v", i, v)
		}
	}
}

func TestAudio_StartFailureKeepsState(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	first := f.ctrl.StopRecording()

	f.devices.AudioErr = media.ErrAccessDenied
	err := f.ctrl.StartRecording(context.Background())
	if !errors.Is(err, media.ErrAccessDenied) {
		t.Fatalf("err = %v, want ErrAccessDenied", err)
	}
	if KindOf(err) != KindAccess {
		t.Errorf("kind = %v", KindOf(err))
	}

	st := f.ctrl.State()
	if st.Recording {
		t.Error("recording after failed start")
	}
	if st.Result != first {
		t.Error("previous result was lost")
	}

	sent := f.sent.Sent()
	if len(sent) != 1 || sent[0].Message != "Could not access microphone" {
		t.Errorf("notifications = %+v", sent)
	}
}

func TestAudio_DoubleStart(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if err := f.ctrl.StartRecording(context.Background()); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("second start = %v, want ErrAlreadyActive", err)
	}
	if f.devices.Requests() != 1 {
		t.Errorf("requests = %d, want 1", f.devices.Requests())
	}
}

func TestAudio_TrackEndFinalizes(t *testing.T) {
	f := newAudioFixture(t)

	if err := f.ctrl.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	f.devices.LastAudioTrack().Stop()

	deadline := time.Now().Add(2 * time.Second)
	for f.ctrl.State().Recording || f.ctrl.State().Result == nil {
		if time.Now().After(deadline) {
			t.Fatal("recording did not end with the track")
		}
		time.Sleep(time.Millisecond)
	}
	if res := f.ctrl.StopRecording(); res != nil {
		t.Error("StopRecording after track end should be a no-op")
	}
}
