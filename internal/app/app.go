// Package app wires the capture features, the resource server and the
// navigation state into one application.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/capture"
	"github.com/handiism/capture-studio/internal/config"
	"github.com/handiism/capture-studio/internal/download"
	"github.com/handiism/capture-studio/internal/http"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
	"golang.org/x/sync/errgroup"
)

// Options configures New. Only Settings and Devices are required.
type Options struct {
	Settings   *config.Settings
	Devices    media.Devices
	Notifier   notify.Notifier
	Scheduler  capture.Scheduler
	Logger     *slog.Logger
	OnProgress func(download.ProgressEvent)
}

// State is a snapshot of the whole application.
type State struct {
	Page      model.Page
	Audio     capture.AudioState
	Photo     capture.PhotoState
	ServerURL string
}

// App is the application shell. Both features live for the lifetime of
// the App; navigation only selects which one is shown.
type App struct {
	Settings  *config.Settings
	Store     *blob.Store
	Audio     *capture.AudioController
	Photo     *capture.PhotoController
	Downloads *download.Manager

	log    *slog.Logger
	server *http.Server

	mu        sync.Mutex
	page      model.Page
	serverURL string
	closed    bool
}

// New builds the application. When resources are served, the server is
// started here; if it cannot listen, resources fall back to blob: URLs.
func New(opts Options) *App {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Log{Logger: logger}
	}

	a := &App{
		Settings: settings,
		Store:    blob.NewStore(),
		log:      logger,
		page:     model.PageAudio,
	}

	if settings.ServeResources {
		a.server = http.NewServer(a.Store, logger)
		base, err := a.server.Start(settings.ListenAddress)
		if err != nil {
			logger.Warn("resource server unavailable, using blob URLs", "addr", settings.ListenAddress, "error", err)
			a.server = nil
		} else {
			a.Store.SetBaseURL(base)
			a.serverURL = base
		}
	}

	deps := capture.Deps{
		Devices:   opts.Devices,
		Store:     a.Store,
		Scheduler: opts.Scheduler,
		Notifier:  notifier,
		Logger:    logger,
	}
	a.Audio = capture.NewAudioController(deps, capture.AudioOptions{
		FFTSize:       settings.FFTSize,
		Timeslice:     settings.RecorderTimeslice(),
		FrameInterval: settings.FrameInterval(),
		TimerInterval: settings.TimerInterval(),
		FileName:      settings.RecordingFileName,
		Software:      "capture-studio",
	})
	a.Photo = capture.NewPhotoController(deps, capture.PhotoOptions{
		FileName: settings.PhotoFileName,
	})
	a.Downloads = download.NewManager(settings.DownloadsPath, a.Store, opts.OnProgress)

	return a
}

// Navigate selects the visible feature. Running sessions keep running.
func (a *App) Navigate(p model.Page) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.page != p {
		a.log.Debug("navigate", "from", a.page, "to", p)
	}
	a.page = p
}

// Page returns the visible feature.
func (a *App) Page() model.Page {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

// ServerURL returns the resource server's base URL, or "" when resources
// are not served.
func (a *App) ServerURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.serverURL
}

// State returns a snapshot of the application.
func (a *App) State() State {
	a.mu.Lock()
	page, serverURL := a.page, a.serverURL
	a.mu.Unlock()

	return State{
		Page:      page,
		Audio:     a.Audio.State(),
		Photo:     a.Photo.State(),
		ServerURL: serverURL,
	}
}

// Close ends both sessions, then stops the resource server and drops
// every resource. It is safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		a.Audio.Close()
		return nil
	})
	g.Go(func() error {
		a.Photo.Close()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	var err error
	if a.server != nil {
		err = a.server.Shutdown(ctx)
	}
	a.Store.Clear()
	a.log.Info("application closed")
	return err
}
