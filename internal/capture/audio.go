package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/handiism/capture-studio/internal/analyser"
	"github.com/handiism/capture-studio/internal/audio"
	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
)

// AudioOptions tunes the recording feature.
type AudioOptions struct {
	FFTSize       int
	Timeslice     time.Duration
	FrameInterval time.Duration
	TimerInterval time.Duration
	FileName      string
	Software      string
}

// DefaultAudioOptions returns the stock recording options.
func DefaultAudioOptions() AudioOptions {
	return AudioOptions{
		FFTSize:       analyser.DefaultFFTSize,
		Timeslice:     time.Second,
		FrameInterval: 16 * time.Millisecond,
		TimerInterval: time.Second,
		FileName:      model.RecordingFileName,
		Software:      "capture-studio",
	}
}

// AudioState is a snapshot of the recording feature.
type AudioState struct {
	Recording bool
	Starting  bool
	Elapsed   int
	Levels    model.Levels
	Result    *model.Resource
}

type audioSession struct {
	stream    *media.Stream
	recorder  *media.Recorder
	analyser  *analyser.Analyser
	format    media.Format
	startedAt time.Time

	sampler Task
	timer   Task

	mu     sync.Mutex
	chunks [][]byte

	finalized chan struct{}
}

func (s *audioSession) appendChunk(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
}

func (s *audioSession) takeChunks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := s.chunks
	s.chunks = nil
	return chunks
}

// AudioController records the microphone and drives the level meter.
type AudioController struct {
	devices  media.Devices
	store    *blob.Store
	sched    Scheduler
	notifier notify.Notifier
	log      *slog.Logger
	opts     AudioOptions

	mu        sync.Mutex
	starting  bool
	recording bool
	session   *audioSession
	elapsed   int
	levels    model.Levels
	result    *model.Resource
}

// NewAudioController creates an idle recording controller.
func NewAudioController(deps Deps, opts AudioOptions) *AudioController {
	deps = deps.withDefaults()
	def := DefaultAudioOptions()
	if opts.FFTSize == 0 {
		opts.FFTSize = def.FFTSize
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = def.FrameInterval
	}
	if opts.TimerInterval <= 0 {
		opts.TimerInterval = def.TimerInterval
	}
	if opts.FileName == "" {
		opts.FileName = def.FileName
	}
	return &AudioController{
		devices:  deps.Devices,
		store:    deps.Store,
		sched:    deps.Scheduler,
		notifier: deps.Notifier,
		log:      deps.Logger.With("feature", "audio"),
		opts:     opts,
	}
}

// StartRecording acquires the microphone and begins recording.
//
// On failure the error is logged, the user is notified and the previous
// state, including the last result, is kept.
func (c *AudioController) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.session != nil || c.starting {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.starting = true
	c.mu.Unlock()

	s, err := c.openSession(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.starting = false
	if err != nil {
		c.log.Error("error accessing microphone", "error", err)
		c.notifier.Notify(notify.Notification{
			Title:   "Microphone",
			Message: "Could not access microphone",
		})
		return err
	}

	c.session = s
	c.recording = true
	c.elapsed = 0
	c.levels = model.Levels{}

	s.timer = c.sched.Every(c.opts.TimerInterval, func() { c.tick(s) })
	s.sampler = c.sched.Every(c.opts.FrameInterval, func() { c.sample(s) })
	if err := s.recorder.Start(); err != nil {
		// Unreachable for a fresh recorder.
		return fmt.Errorf("start recorder: %w", err)
	}

	c.log.Info("recording started",
		"sample_rate", s.format.SampleRate,
		"channels", s.format.Channels)
	return nil
}

func (c *AudioController) openSession(ctx context.Context) (*audioSession, error) {
	if c.devices == nil {
		return nil, fmt.Errorf("%w: no microphone backend", media.ErrDeviceUnavailable)
	}

	stream, err := c.devices.GetUserMedia(ctx, media.Constraints{Audio: true})
	if err != nil {
		return nil, err
	}

	tracks := stream.AudioTracks()
	if len(tracks) == 0 {
		stream.Stop()
		return nil, fmt.Errorf("%w: no audio tracks found in stream", media.ErrDeviceUnavailable)
	}
	track := tracks[0]

	an, err := analyser.New(track, c.opts.FFTSize)
	if err != nil {
		stream.Stop()
		return nil, err
	}

	s := &audioSession{
		stream:    stream,
		recorder:  media.NewRecorder(track, c.opts.Timeslice),
		analyser:  an,
		format:    track.Format(),
		startedAt: time.Now(),
		finalized: make(chan struct{}),
	}
	s.recorder.OnDataAvailable = s.appendChunk
	s.recorder.OnStop = func() { c.finalize(s) }
	return s, nil
}

func (c *AudioController) tick(s *audioSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != s || !c.recording {
		return
	}
	c.elapsed++
}

func (c *AudioController) sample(s *audioSession) {
	levels := ComputeLevels(s.analyser.ByteFrequencyData())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != s || !c.recording {
		return
	}
	c.levels = levels
}

// StopRecording stops an active recording and returns the new resource.
// It returns nil when nothing is being recorded.
func (c *AudioController) StopRecording() *model.Resource {
	c.mu.Lock()
	s := c.session
	if s == nil || !c.recording {
		c.mu.Unlock()
		return nil
	}
	c.recording = false
	c.mu.Unlock()

	// Finalize runs from the recorder's OnStop before Stop returns.
	s.recorder.Stop()
	<-s.finalized

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// finalize ends a session, however it ended.
func (c *AudioController) finalize(s *audioSession) {
	defer close(s.finalized)
	defer s.stream.Stop()

	s.sampler.Stop()
	s.timer.Stop()
	s.analyser.Close()

	chunks := s.takeChunks()
	data, err := audio.EncodeWAV(chunks, s.format, &audio.Metadata{
		Title:        "Recording",
		CreationDate: s.startedAt,
		Software:     c.opts.Software,
	})
	if err != nil {
		c.log.Error("error encoding recording", "error", err)
	}
	res := c.store.Put(data, audio.MIMEType, c.opts.FileName)

	c.mu.Lock()
	c.result = res
	c.session = nil
	c.recording = false
	elapsed := c.elapsed
	c.mu.Unlock()

	c.log.Info("recording finished",
		"url", res.URL,
		"chunks", len(chunks),
		"bytes", res.Size,
		"elapsed", elapsed)
}

// Close stops any active recording.
func (c *AudioController) Close() {
	c.StopRecording()
}

// State returns a snapshot of the feature.
func (c *AudioController) State() AudioState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AudioState{
		Recording: c.recording,
		Starting:  c.starting,
		Elapsed:   c.elapsed,
		Levels:    c.levels,
		Result:    c.result,
	}
}
