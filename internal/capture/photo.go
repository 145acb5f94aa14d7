package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/handiism/capture-studio/internal/blob"
	ioutils "github.com/handiism/capture-studio/internal/io"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
)

// PNGMIMEType is the content type of captured photos.
const PNGMIMEType = "image/png"

// PhotoOptions tunes the photo feature.
type PhotoOptions struct {
	FileName string
}

// DefaultPhotoOptions returns the stock photo options.
func DefaultPhotoOptions() PhotoOptions {
	return PhotoOptions{FileName: model.PhotoFileName}
}

// PhotoState is a snapshot of the photo feature.
type PhotoState struct {
	CameraOn bool
	Starting bool
	Width    int
	Height   int
	Photo    *model.Resource
}

// cameraSession is immutable once published. Readers may keep using a
// session after StopCamera detached it; its tracks are then stopped.
type cameraSession struct {
	stream  *media.Stream
	preview media.VideoTrack
}

// PhotoController runs the camera preview and captures stills.
type PhotoController struct {
	devices  media.Devices
	store    *blob.Store
	images   *ioutils.ImageService
	notifier notify.Notifier
	log      *slog.Logger
	opts     PhotoOptions

	mu       sync.Mutex
	starting bool
	session  *cameraSession
	photo    *model.Resource
}

// NewPhotoController creates a controller with the camera off.
func NewPhotoController(deps Deps, opts PhotoOptions) *PhotoController {
	deps = deps.withDefaults()
	if opts.FileName == "" {
		opts.FileName = model.PhotoFileName
	}
	return &PhotoController{
		devices:  deps.Devices,
		store:    deps.Store,
		images:   ioutils.NewImageService(),
		notifier: deps.Notifier,
		log:      deps.Logger.With("feature", "photo"),
		opts:     opts,
	}
}

// StartCamera acquires the camera and attaches its first video track as
// the preview.
func (c *PhotoController) StartCamera(ctx context.Context) error {
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
		c.log.Error("error accessing camera", "error", err)
		msg := "Could not access camera: " + err.Error()
		if errors.Is(err, ErrNoVideoTrack) {
			msg = "No video tracks found in stream"
		}
		c.notifier.Notify(notify.Notification{Title: "Camera", Message: msg})
		return err
	}

	c.session = s
	c.log.Info("camera started", "track", s.preview.Label())
	return nil
}

func (c *PhotoController) openSession(ctx context.Context) (*cameraSession, error) {
	if c.devices == nil {
		return nil, fmt.Errorf("%w: no camera backend", media.ErrDeviceUnavailable)
	}

	stream, err := c.devices.GetUserMedia(ctx, media.Constraints{Video: true})
	if err != nil {
		return nil, err
	}

	tracks := stream.VideoTracks()
	if len(tracks) == 0 {
		stream.Stop()
		return nil, ErrNoVideoTrack
	}
	return &cameraSession{stream: stream, preview: tracks[0]}, nil
}

// StopCamera releases every track of the camera stream. It does nothing
// when the camera is off.
func (c *PhotoController) StopCamera() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return
	}
	s.stream.Stop()
	c.log.Info("camera stopped")
}

// TakePhoto captures the current preview frame at its native size and
// replaces the previous photo.
//
// ErrNotReady is returned, and the user notified, while the camera is
// off or before the preview knows its dimensions.
func (c *PhotoController) TakePhoto(ctx context.Context) (*model.Resource, error) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil, c.notReady(ErrCameraOff)
	}

	w, h := s.preview.Dimensions()
	if w == 0 || h == 0 {
		return nil, c.notReady(ErrNotReady)
	}

	frame, err := s.preview.Frame()
	if err != nil {
		return nil, c.notReady(fmt.Errorf("%w: %w", ErrNotReady, err))
	}

	surface := c.images.Snapshot(frame, w, h)
	data, err := c.images.EncodePNG(ctx, surface)
	if err != nil {
		c.log.Error("error encoding photo", "error", err)
		c.notifier.Notify(notify.Notification{Title: "Camera", Message: "Could not save photo"})
		return nil, err
	}

	res := c.store.Put(data, PNGMIMEType, c.opts.FileName)
	res.Width, res.Height = w, h

	c.mu.Lock()
	c.photo = res
	c.mu.Unlock()

	c.log.Info("photo taken", "url", res.URL, "width", w, "height", h, "bytes", res.Size)
	return res, nil
}

func (c *PhotoController) notReady(err error) error {
	c.log.Warn("photo requested before video was ready", "error", err)
	c.notifier.Notify(notify.Notification{
		Title:   "Camera",
		Message: "Video not ready yet, please wait a moment",
	})
	return err
}

// PreviewFrame returns the latest preview frame, if any.
func (c *PhotoController) PreviewFrame() (image.Image, bool) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil, false
	}
	frame, err := s.preview.Frame()
	if err != nil {
		return nil, false
	}
	return frame, true
}

// Close turns the camera off.
func (c *PhotoController) Close() {
	c.StopCamera()
}

// State returns a snapshot of the feature.
func (c *PhotoController) State() PhotoState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := PhotoState{
		CameraOn: c.session != nil,
		Starting: c.starting,
		Photo:    c.photo,
	}
	if c.session != nil {
		st.Width, st.Height = c.session.preview.Dimensions()
	}
	return st
}
