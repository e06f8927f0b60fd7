// Package webhook serves the Meta webhook endpoint: GET verification and
// POST event delivery with acknowledge-first dispatch.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/whizorhealth/whizor-bot/internal/whatsapp"
)

// MessageHandler is called once per dispatched inbound message, on its own
// goroutine, after the webhook response has been written.
type MessageHandler func(ctx context.Context, msg whatsapp.Message)

// Server is the HTTP server receiving WhatsApp Cloud API webhook events.
type Server struct {
	addr        string
	verifyToken string
	appSecret   string
	handler     MessageHandler
	logger      *slog.Logger
	monitor     http.HandlerFunc
	srv         *http.Server
}

// NewServer creates a webhook server.
//   - addr: listen address (e.g. ":8080")
//   - verifyToken: pre-shared secret for the GET verification handshake
//   - appSecret: optional HMAC-SHA256 secret for POST payload signatures
//   - handler: callback for each dispatched inbound message
func NewServer(addr, verifyToken, appSecret string, logger *slog.Logger, handler MessageHandler) *Server {
	return &Server{
		addr:        addr,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		handler:     handler,
		logger:      logger,
	}
}

// WithMonitor mounts the ops event feed handler at /monitor.
func (s *Server) WithMonitor(h http.HandlerFunc) *Server {
	s.monitor = h
	return s
}

// Start begins listening for webhook requests. It blocks until the server is
// stopped or encounters a fatal listener error.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("webhook listen: %w", err)
	}
	s.logger.Info("webhook server listening", slog.String("addr", ln.Addr().String()))
	return s.srv.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleVerification(w, r)
		case http.MethodPost:
			s.handleEvent(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/health", s.handleHealth)
	if s.monitor != nil {
		mux.HandleFunc("/monitor", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			s.monitor(w, r)
		})
	}
	return mux
}

// handleVerification responds to the webhook verification challenge:
// GET /webhook?hub.mode=subscribe&hub.verify_token=TOKEN&hub.challenge=CHALLENGE
func (s *Server) handleVerification(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "" || token == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if mode != "subscribe" || token != s.verifyToken {
		s.logger.Warn("webhook verification failed", slog.String("mode", mode))
		w.WriteHeader(http.StatusForbidden)
		return
	}

	s.logger.Info("webhook verified")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, challenge)
}

// handleEvent acknowledges the delivery and dispatches the embedded message.
// The 200 goes out unconditionally and before any processing: the platform
// retries deliveries it considers failed, and no downstream outcome may
// surface here.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Warn("webhook read failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusOK)
		return
	}
	signature := r.Header.Get("X-Hub-Signature-256")

	w.WriteHeader(http.StatusOK)

	go s.process(body, signature)
}

// process runs after acknowledgment with its own error boundary, so one
// malformed event cannot affect others.
func (s *Server) process(body []byte, signature string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic while processing webhook event", slog.Any("panic", rec))
		}
	}()

	if s.appSecret != "" && !s.validSignature(body, signature) {
		s.logger.Warn("webhook event discarded: invalid signature")
		return
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Warn("webhook event discarded: invalid JSON", slog.String("error", err.Error()))
		return
	}

	msg, ok := payload.FirstMessage()
	if !ok {
		// Status callbacks and other non-message envelopes land here.
		s.logger.Debug("webhook event discarded: no message in envelope")
		return
	}

	s.handler(context.Background(), msg)
}

// validSignature checks the X-Hub-Signature-256 HMAC.
func (s *Server) validSignature(body []byte, header string) bool {
	if header == "" {
		return false
	}
	sig := strings.TrimPrefix(header, "sha256=")
	mac := hmac.New(sha256.New, []byte(s.appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
