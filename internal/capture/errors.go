package capture

import (
	"errors"
	"fmt"

	"github.com/handiism/capture-studio/internal/media"
)

var (
	// ErrNotReady is returned when a photo is requested before the
	// preview has valid dimensions.
	ErrNotReady = errors.New("capture: video not ready")

	// ErrCameraOff is returned when a photo is requested with no camera
	// session.
	ErrCameraOff = fmt.Errorf("%w: camera is not running", ErrNotReady)

	// ErrNoVideoTrack is returned when the camera grant has no video.
	ErrNoVideoTrack = fmt.Errorf("%w: no video tracks found in stream", media.ErrDeviceUnavailable)

	// ErrAlreadyActive is returned when starting a feature that is
	// already running or starting.
	ErrAlreadyActive = errors.New("capture: session already active")
)

// ErrorKind groups errors by how the user should understand them.
type ErrorKind int

const (
	// KindNone is the kind of a nil error.
	KindNone ErrorKind = iota

	// KindAccess covers refused permission and missing devices.
	KindAccess

	// KindNotReady covers captures requested too early.
	KindNotReady

	// KindOther is anything else.
	KindOther
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAccess:
		return "access denied or device unavailable"
	case KindNotReady:
		return "not ready"
	default:
		return "other"
	}
}

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, media.ErrAccessDenied), errors.Is(err, media.ErrDeviceUnavailable):
		return KindAccess
	case errors.Is(err, ErrNotReady):
		return KindNotReady
	default:
		return KindOther
	}
}
