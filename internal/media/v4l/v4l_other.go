//go:build !linux

package v4l

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/handiism/capture-studio/internal/media"
)

// Devices reports every camera as unavailable on this platform.
type Devices struct {
	config Config
}

// NewDevices creates devices that always fail.
func NewDevices(config Config, _ *slog.Logger) *Devices {
	return &Devices{config: config}
}

// GetUserMedia implements media.Devices.
func (d *Devices) GetUserMedia(context.Context, media.Constraints) (*media.Stream, error) {
	return nil, fmt.Errorf("%w: %s: camera capture requires Linux", media.ErrDeviceUnavailable, d.config.Device)
}
