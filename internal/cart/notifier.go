package cart

import (
	"context"
	"sync"
)

// Event tells views of a browser session that its cart changed.
type Event struct {
	Session string `json:"-"`
	Count   int    `json:"count"`
	Total   int64  `json:"total"`
}

type Notifier interface {
	Publish(ctx context.Context, event Event)
}

// Subscriber delivers events of one session until the returned cancel func is
// called or ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, session string) (<-chan Event, func())
}

type Broker interface {
	Notifier
	Subscriber
}

const subscriberBuffer = 8

// Hub fans events out to subscribers inside this process.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *Hub) Publish(_ context.Context, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[event.Session] {
		select {
		case ch <- event:
		default: // slow view, it will catch up on its next read
		}
	}
}

func (h *Hub) Subscribe(ctx context.Context, session string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[session] == nil {
		h.subs[session] = make(map[chan Event]struct{})
	}
	h.subs[session][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			h.mu.Lock()
			delete(h.subs[session], ch)
			if len(h.subs[session]) == 0 {
				delete(h.subs, session)
			}
			close(ch)
			h.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel
}
