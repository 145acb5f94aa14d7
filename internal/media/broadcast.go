package media

import "sync"

// subscriberBuffer is the per-subscriber frame backlog. Frames beyond it
// are dropped for that subscriber.
const subscriberBuffer = 64

// Broadcaster fans PCM frames out to subscribers without ever blocking
// the producer.
//
// Track implementations embed a Broadcaster and call Publish from their
// capture loop, and Close when the track stops.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan []int16
	nextID int
	closed bool
}

// Subscribe registers a new subscriber.
func (b *Broadcaster) Subscribe() (<-chan []int16, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan []int16, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = make(map[int]chan []int16)
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers a copy of frame to every subscriber that has room.
// It reports how many subscribers dropped the frame.
func (b *Broadcaster) Publish(frame []int16) (dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}
	for _, ch := range b.subs {
		cp := append([]int16(nil), frame...)
		select {
		case ch <- cp:
		default:
			dropped++
		}
	}
	return dropped
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Later subscriptions are closed at once.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
