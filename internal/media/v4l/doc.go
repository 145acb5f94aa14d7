// Package v4l captures camera frames through Video4Linux.
//
// Frames are requested as Motion-JPEG and decoded on arrival; the most
// recent decoded frame is what VideoTrack.Frame returns. Until the first
// frame decodes the track reports 0x0 dimensions.
//
// On platforms other than Linux every request fails with
// media.ErrDeviceUnavailable.
package v4l

// Config selects the camera device and the requested frame size. The
// driver may pick a different size; the decoded frames are authoritative.
type Config struct {
	Device string
	Width  int
	Height int
}

// DefaultConfig returns /dev/video0 at 640x480.
func DefaultConfig() Config {
	return Config{Device: "/dev/video0", Width: 640, Height: 480}
}
