package media_test

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/media/mediatest"
)

var testFormat = media.Format{SampleRate: 8000, Channels: 1, BitDepth: 16}

func TestStream_StopStopsEveryTrack(t *testing.T) {
	audio := mediatest.NewAudioTrack(testFormat)
	video := mediatest.NewVideoTrack()
	stream := media.NewStream(audio, video)

	if !stream.Active() {
		t.Fatal("new stream should be active")
	}
	if got := len(stream.AudioTracks()); got != 1 {
		t.Errorf("AudioTracks() = %d, want 1", got)
	}
	if got := len(stream.VideoTracks()); got != 1 {
		t.Errorf("VideoTracks() = %d, want 1", got)
	}

	stream.Stop()
	stream.Stop()

	for _, track := range stream.Tracks() {
		if !track.Stopped() {
			t.Errorf("%s track still live after Stop", track.Kind())
		}
	}
	if stream.Active() {
		t.Error("stream should not be active after Stop")
	}
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	var b media.Broadcaster
	ch, cancel := b.Subscribe()
	defer cancel()

	var dropped int
	for i := 0; i < 100; i++ {
		dropped += b.Publish([]int16{int16(i)})
	}
	if dropped != 100-len(ch) {
		t.Errorf("dropped = %d, buffered = %d", dropped, len(ch))
	}

	first := <-ch
	if first[0] != 0 {
		t.Errorf("first frame = %v, want [0]", first)
	}
}

func TestBroadcaster_CloseEndsSubscriptions(t *testing.T) {
	var b media.Broadcaster
	ch, cancel := b.Subscribe()
	b.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}

	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
}

func TestRecorder_CollectsFramesAndStopsOnce(t *testing.T) {
	track := mediatest.NewAudioTrack(testFormat)
	rec := media.NewRecorder(track, 0)

	var (
		mu     sync.Mutex
		chunks [][]byte
		stops  int
	)
	rec.OnDataAvailable = func(chunk []byte) {
		mu.Lock()
		chunks = append(chunks, chunk)
		mu.Unlock()
	}
	rec.OnStop = func() {
		mu.Lock()
		stops++
		mu.Unlock()
	}

	if err := rec.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Start(); err != media.ErrRecorderState {
		t.Errorf("second Start() error = %v, want ErrRecorderState", err)
	}

	track.Push([]int16{1, 2, 3})
	track.Push([]int16{-4})

	rec.Stop()
	rec.Stop()

	mu.Lock()
	defer mu.Unlock()

	if stops != 1 {
		t.Errorf("OnStop ran %d times, want 1", stops)
	}
	var data []byte
	for _, c := range chunks {
		data = append(data, c...)
	}
	if len(data) != 8 {
		t.Fatalf("recorded %d bytes, want 8", len(data))
	}
	if got := int16(binary.LittleEndian.Uint16(data[6:])); got != -4 {
		t.Errorf("last sample = %d, want -4", got)
	}
	if rec.State() != media.RecorderStopped {
		t.Errorf("State() = %v, want stopped", rec.State())
	}
	if track.Subscribers() != 0 {
		t.Errorf("recorder left %d subscriptions", track.Subscribers())
	}
}

func TestRecorder_ZeroFramesStillStops(t *testing.T) {
	track := mediatest.NewAudioTrack(testFormat)
	rec := media.NewRecorder(track, 0)

	var chunks, stops int
	rec.OnDataAvailable = func([]byte) { chunks++ }
	rec.OnStop = func() { stops++ }

	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	rec.Stop()

	if chunks != 0 {
		t.Errorf("got %d chunks, want 0", chunks)
	}
	if stops != 1 {
		t.Errorf("OnStop ran %d times, want 1", stops)
	}
}

func TestRecorder_TrackEndFinalizes(t *testing.T) {
	track := mediatest.NewAudioTrack(testFormat)
	rec := media.NewRecorder(track, 0)

	stopped := make(chan struct{})
	rec.OnStop = func() { close(stopped) }
	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}

	track.Stop()
	<-stopped

	// Stop after the recorder finished on its own must not block.
	rec.Stop()
}

func TestRecorder_StopBeforeStart(t *testing.T) {
	track := mediatest.NewAudioTrack(testFormat)
	rec := media.NewRecorder(track, 0)

	called := false
	rec.OnStop = func() { called = true }
	rec.Stop()

	if called {
		t.Error("OnStop should not run for a recorder that never started")
	}
	if err := rec.Start(); err != media.ErrRecorderState {
		t.Errorf("Start() after Stop error = %v, want ErrRecorderState", err)
	}
}
