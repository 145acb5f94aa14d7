package capture

import (
	"log/slog"

	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/notify"
)

// Deps are the capabilities a controller needs.
type Deps struct {
	Devices   media.Devices
	Store     *blob.Store
	Scheduler Scheduler
	Notifier  notify.Notifier
	Logger    *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Store == nil {
		d.Store = blob.NewStore()
	}
	if d.Scheduler == nil {
		d.Scheduler = TickerScheduler{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.Discard
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}
