package monitor

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHandlerStreamsEvents(t *testing.T) {
	h := NewHub()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(h.Handler(log))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the server a moment to register the subscription.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.Publish(NewEvent(KindReply, "111", "doctor list (3 rows)"))

		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		var ev Event
		if err := conn.ReadJSON(&ev); err == nil {
			if ev.Kind != KindReply || ev.From != "111" {
				t.Fatalf("got %+v", ev)
			}
			return
		}
	}
	t.Fatal("no event received over the monitor socket")
}
