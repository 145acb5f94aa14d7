package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"time"
)

// RecorderState is the lifecycle state of a Recorder.
type RecorderState int

const (
	RecorderInactive RecorderState = iota
	RecorderRecording
	RecorderStopped
)

// ErrRecorderState is returned when Start is called on a recorder that
// already started.
var ErrRecorderState = errors.New("media: recorder already started")

// Recorder captures an AudioTrack into little-endian PCM chunks.
//
// While recording, a chunk is emitted through OnDataAvailable every
// timeslice. When the recorder stops, either through Stop or because the
// track's feed ended, the remaining data is emitted as a final chunk and
// OnStop runs exactly once. Both callbacks run on the recorder's own
// goroutine and must not call Stop.
type Recorder struct {
	// OnDataAvailable receives each chunk. Chunks are never empty.
	OnDataAvailable func(chunk []byte)

	// OnStop runs once after the last chunk.
	OnStop func()

	track     AudioTrack
	timeslice time.Duration

	mu       sync.Mutex
	state    RecorderState
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRecorder creates a recorder for track. A zero timeslice emits a
// single chunk on stop.
func NewRecorder(track AudioTrack, timeslice time.Duration) *Recorder {
	return &Recorder{
		track:     track,
		timeslice: timeslice,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Format returns the PCM format of emitted chunks.
func (r *Recorder) Format() Format {
	return r.track.Format()
}

// State returns the current recorder state.
func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderInactive {
		return ErrRecorderState
	}
	r.state = RecorderRecording

	frames, cancel := r.track.Subscribe()
	go r.run(frames, cancel)
	return nil
}

// Stop ends recording and returns after OnStop has run. Calling Stop on
// a recorder that never started, or more than once, is a no-op.
func (r *Recorder) Stop() {
	r.mu.Lock()
	state := r.state
	if state == RecorderInactive {
		r.state = RecorderStopped
	}
	r.mu.Unlock()

	if state == RecorderInactive {
		return
	}
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}

func (r *Recorder) run(frames <-chan []int16, cancel func()) {
	defer close(r.done)

	var buf bytes.Buffer
	write := func(frame []int16) {
		_ = binary.Write(&buf, binary.LittleEndian, frame)
	}
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunk := bytes.Clone(buf.Bytes())
		buf.Reset()
		if r.OnDataAvailable != nil {
			r.OnDataAvailable(chunk)
		}
	}

	var tick <-chan time.Time
	if r.timeslice > 0 {
		ticker := time.NewTicker(r.timeslice)
		defer ticker.Stop()
		tick = ticker.C
	}

loop:
	for {
		select {
		case <-r.stopCh:
			// Keep whatever was captured before the stop request.
		drain:
			for {
				select {
				case frame, ok := <-frames:
					if !ok {
						break drain
					}
					write(frame)
				default:
					break drain
				}
			}
			break loop
		case frame, ok := <-frames:
			if !ok {
				break loop
			}
			write(frame)
		case <-tick:
			flush()
		}
	}

	cancel()
	flush()

	r.mu.Lock()
	r.state = RecorderStopped
	r.mu.Unlock()

	if r.OnStop != nil {
		r.OnStop()
	}
}
