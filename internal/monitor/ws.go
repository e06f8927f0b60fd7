package monitor

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
}

// Handler returns an HTTP handler that upgrades the connection and streams
// hub events as JSON text frames until the client disconnects.
func (h *Hub) Handler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("monitor upgrade failed", slog.String("error", err.Error()))
			return
		}

		_, events, cancel := h.Subscribe()
		defer cancel()
		defer conn.Close()

		logger.Info("monitor client connected", slog.String("remote", conn.RemoteAddr().String()))

		// Reads are discarded; the read loop only notices disconnects.
		done := make(chan struct{})
		var once sync.Once
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					once.Do(func() { close(done) })
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					logger.Debug("monitor write failed", slog.String("error", err.Error()))
					return
				}
			}
		}
	}
}
