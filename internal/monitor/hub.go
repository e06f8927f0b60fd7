// Package monitor streams dispatcher activity to ops WebSocket clients.
package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds published by the dispatcher.
const (
	KindInbound = "inbound"
	KindReply   = "reply"
	KindDrop    = "drop"
	KindError   = "error"
)

// Event is one observed dispatcher action.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	From      string    `json:"from,omitempty"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an event with a fresh correlation id and timestamp.
func NewEvent(kind, from, detail string) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		From:      from,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

// Hub fans dispatcher events out to subscribers. A nil *Hub is valid and
// drops everything, so callers never need to guard Publish.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[string]chan Event{}}
}

// Subscribe registers a new subscriber and returns its id, a read-only event
// channel, and a cancel function to unsubscribe.
func (h *Hub) Subscribe() (string, <-chan Event, func()) {
	id := uuid.NewString()
	ch := make(chan Event, 32)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if current, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(current)
		}
		h.mu.Unlock()
	}

	return id, ch, cancel
}

// Publish delivers an event to all subscribers. Slow receivers are silently
// dropped.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
