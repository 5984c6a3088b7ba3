package events

import (
	"sync"
	"time"
)

// TasksUpdated signals that the underlying task collection changed, e.g.
// after a plan conversion or a direct mutation. Subscribers should treat it
// as a re-fetch hint, not as carrying authoritative payloads.
type TasksUpdated struct {
	Source    string
	TaskTitle string
}

// TasksRefreshed signals that a provider finished reloading its snapshot.
type TasksRefreshed struct {
	At time.Time
}

// Bus is a typed in-process pub/sub channel replacing ambient string-named
// events: subscribers are statically known, publishers never block.
type Bus struct {
	mu        sync.RWMutex
	updated   map[int]chan TasksUpdated
	refreshed map[int]chan TasksRefreshed
	nextID    int
}

func NewBus() *Bus {
	return &Bus{
		updated:   make(map[int]chan TasksUpdated),
		refreshed: make(map[int]chan TasksRefreshed),
	}
}

// SubscribeUpdated registers a listener for TasksUpdated events. The cancel
// func removes the subscription; calling it more than once is safe.
func (b *Bus) SubscribeUpdated() (<-chan TasksUpdated, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan TasksUpdated, 16)
	b.updated[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.updated[id]; ok {
			delete(b.updated, id)
			close(ch)
		}
	}
}

func (b *Bus) SubscribeRefreshed() (<-chan TasksRefreshed, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan TasksRefreshed, 16)
	b.refreshed[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.refreshed[id]; ok {
			delete(b.refreshed, id)
			close(ch)
		}
	}
}

// PublishUpdated delivers to every subscriber without blocking. A slow
// subscriber with a full buffer misses the event; it is only a hint.
func (b *Bus) PublishUpdated(e TasksUpdated) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.updated {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *Bus) PublishRefreshed(e TasksRefreshed) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.refreshed {
		select {
		case ch <- e:
		default:
		}
	}
}
