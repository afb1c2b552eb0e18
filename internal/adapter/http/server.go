package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schoolcancelled/school-status-etl/internal/domain"
)

// StatusProvider serves the current school status report.
type StatusProvider interface {
	Status(ctx context.Context) (domain.StatusReport, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the status API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	provider   StatusProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/status, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, provider StatusProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		logger:   logger,
	}

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleStatus serves the current report. Clients must not cache: the
// service owns its own cache window, so responses always carry no-store
// headers. Failures with no last good report return 503 with an
// error-shaped body of the same general structure.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.provider.Status(r.Context())
	if err != nil {
		s.logger.Error("status request failed", "error", err)
		writeStatusJSON(w, http.StatusServiceUnavailable, unavailableReport())
		return
	}
	writeStatusJSON(w, http.StatusOK, report)
}

// unavailableReport is the error shape served when no report is available.
// Callers distinguish failure via the verified flag and the 503 status,
// never via missing fields.
func unavailableReport() domain.StatusReport {
	return domain.StatusReport{
		IsOpen:   false,
		Status:   "Status Unavailable",
		Message:  "Service temporarily unavailable. Please try again later.",
		Verified: false,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
