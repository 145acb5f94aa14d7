package capture

import (
	"sync"
	"time"
)

// Task is a cancellable repeating callback.
type Task interface {
	// Stop cancels the task. Once Stop returns the callback will not run
	// again. Stop is idempotent and must not be called from the callback.
	Stop()
}

// Scheduler runs callbacks periodically.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// TickerScheduler runs each task on its own goroutine driven by a
// time.Ticker.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(interval, fn)
	return t
}

type tickerTask struct {
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func (t *tickerTask) run(interval time.Duration, fn func()) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			return
		case <-ticker.C:
			// select picks at random when both are ready.
			select {
			case <-t.quit:
				return
			default:
			}
			fn()
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.quit) })
	<-t.done
}
