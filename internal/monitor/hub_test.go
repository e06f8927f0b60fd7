package monitor

import (
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	_, events, cancel := h.Subscribe()
	defer cancel()

	h.Publish(NewEvent(KindInbound, "111", "type=text"))

	select {
	case ev := <-events:
		if ev.Kind != KindInbound || ev.From != "111" {
			t.Fatalf("got %+v", ev)
		}
		if ev.ID == "" {
			t.Error("event should carry a correlation id")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub()
	_, events, cancel := h.Subscribe()

	cancel()
	if _, ok := <-events; ok {
		t.Fatal("channel should be closed after cancel")
	}
	// Second cancel is a no-op.
	cancel()
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	h := NewHub()
	_, events, cancel := h.Subscribe()
	defer cancel()

	// Fill the buffer and then some; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish(NewEvent(KindDrop, "111", "overflow"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	drained := 0
	for n := len(events); drained < n; drained++ {
		<-events
	}
	if drained == 0 {
		t.Error("expected some buffered events")
	}
}

func TestNilHubPublishIsSafe(t *testing.T) {
	var h *Hub
	h.Publish(NewEvent(KindReply, "111", "text"))
}
