// Package notify delivers user-facing notifications.
//
// A notification is blocking from the user's point of view: the
// interactive UI shows it as a modal that must be dismissed, and the
// desktop notifier raises an alert dialog.
package notify

import (
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"
)

// Notification is a message for the user.
type Notification struct {
	Title   string
	Message string
}

// Notifier shows notifications.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) { f(n) }

// Multi sends every notification to each notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(n Notification) {
	for _, nn := range m {
		if nn != nil {
			nn.Notify(n)
		}
	}
}

// Discard drops notifications.
var Discard Notifier = Func(func(Notification) {})

// Log writes notifications to a logger at warn level.
type Log struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (l Log) Notify(n Notification) {
	lg := l.Logger
	if lg == nil {
		lg = slog.Default()
	}
	lg.Warn("notification", "title", n.Title, "message", n.Message)
}

// Desktop raises a native alert through the OS notification system.
type Desktop struct {
	AppName string
	Logger  *slog.Logger
}

// Notify implements Notifier. Failures are logged and otherwise ignored.
func (d Desktop) Notify(n Notification) {
	title := n.Title
	if d.AppName != "" {
		title = d.AppName + ": " + title
	}
	if err := beeep.Alert(title, n.Message, ""); err != nil && d.Logger != nil {
		d.Logger.Debug("desktop notification failed", "error", err)
	}
}

// Recorder keeps every notification, for tests and for replaying into a
// UI that starts listening late.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns the notifications received so far.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Chan forwards notifications to a channel for an event loop to pick up.
// When the channel is full the notification is dropped.
type Chan chan Notification

// Notify implements Notifier.
func (c Chan) Notify(n Notification) {
	select {
	case c <- n:
	default:
	}
}
