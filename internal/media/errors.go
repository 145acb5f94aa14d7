package media

import "errors"

var (
	// ErrAccessDenied is returned when the user or OS refuses device access.
	ErrAccessDenied = errors.New("media: access denied")

	// ErrDeviceUnavailable is returned when no matching device exists or
	// it cannot be opened.
	ErrDeviceUnavailable = errors.New("media: device unavailable")

	// ErrNoConstraints is returned when GetUserMedia is asked for nothing.
	ErrNoConstraints = errors.New("media: at least one of audio or video must be requested")
)
