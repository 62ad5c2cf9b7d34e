// Package status exposes the OverSIP status listener: liveness probe,
// Prometheus metrics, and the recent-log view, served by the syslogger
// process.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// LogTailer provides the recent drained log output.
type LogTailer interface {
	Recent(n int) []byte
}

// Config holds status listener configuration.
type Config struct {
	Listen   string
	Username string
	Password string // bcrypt hash
}

// Server is the HTTP status server.
type Server struct {
	cfg     Config
	tailer  LogTailer
	metrics http.Handler
	logger  *slog.Logger
	mux     *http.ServeMux
	ln      net.Listener
	httpSrv *http.Server
}

// NewServer creates a status server. metrics may be nil to disable the
// metrics endpoint.
func NewServer(cfg Config, tailer LogTailer, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		tailer:  tailer,
		metrics: metrics,
		logger:  logger,
	}
	s.mux = s.buildMux()
	return s
}

func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Probe endpoint -- no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.requireAuth(s.metrics.ServeHTTP))
	}
	mux.HandleFunc("GET /api/v1/log", s.requireAuth(s.handleLog))

	return mux
}

// Handler returns the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start begins serving on the configured TCP address.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("status listener failed on %s: %w", s.cfg.Listen, err)
	}
	s.ln = ln
	s.httpSrv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("status listener error", "error", err)
		}
	}()

	s.logger.Info("status listener running", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	n := 4096
	if v := r.URL.Query().Get("bytes"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid bytes parameter", "BAD_REQUEST")
			return
		}
		n = parsed
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.tailer != nil {
		_, _ = w.Write(s.tailer.Recent(n))
	}
}

// requireAuth wraps a handler with HTTP Basic Auth when credentials are
// configured.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Username == "" {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != s.cfg.Username || !checkPassword(pass, s.cfg.Password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="oversip"`)
			writeError(w, http.StatusUnauthorized, "invalid credentials", "UNAUTHORIZED")
			return
		}

		next(w, r)
	}
}

func checkPassword(plain, hash string) bool {
	if hash == "" {
		return plain == ""
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
