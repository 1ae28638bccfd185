package notify

import (
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer bounds the per-subscriber event queue. A slow consumer
// loses intermediate events, which is harmless: every event is only a
// trigger to re-fetch.
const subscriberBuffer = 8

// Subscriber is one registered listener on the hub.
type Subscriber struct {
	ID string
	C  chan Event
}

// Hub fans change events out to the dashboard event streams of the
// current process. One subscriber is acquired per screen visit and must
// be released exactly once on teardown.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]*Subscriber),
	}
}

// Subscribe registers a new listener.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID: uuid.NewString(),
		C:  make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes a listener and closes its channel. Safe to call for
// an already-removed ID.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.C)
	}
}

// Broadcast delivers the event to every subscriber. Full queues are
// skipped rather than blocked on.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.C <- event:
		default:
		}
	}
}

// Count returns the number of active subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}
