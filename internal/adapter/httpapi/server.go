// Package httpapi exposes the derived views over HTTP for whatever UI sits
// in front: JSON endpoints for filters, table rows, map markers, and trends,
// a CSV download of the current table, and the usual health, readiness, and
// metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/damdash/dam-levels-service/internal/domain"
	"github.com/damdash/dam-levels-service/internal/observability"
	"github.com/damdash/dam-levels-service/internal/service"
)

// ReadinessChecker reports whether the report store is reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server serves the dashboard API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics

	filters   *service.FilterResolver
	projector *service.Projector
	trends    *service.TrendAggregator
	ready     ReadinessChecker
}

// NewServer wires the API routes.
func NewServer(
	addr string,
	filters *service.FilterResolver,
	projector *service.Projector,
	trends *service.TrendAggregator,
	ready ReadinessChecker,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:    logger,
		metrics:   metrics,
		filters:   filters,
		projector: projector,
		trends:    trends,
		ready:     ready,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/filters", s.instrument("filters", s.handleFilters))
	mux.HandleFunc("GET /api/dams", s.instrument("dams", s.handleDams))
	mux.HandleFunc("GET /api/reports", s.instrument("reports", s.handleReports))
	mux.HandleFunc("GET /api/reports.csv", s.instrument("reports_csv", s.handleReportsCSV))
	mux.HandleFunc("GET /api/markers", s.instrument("markers", s.handleMarkers))
	mux.HandleFunc("GET /api/trends", s.instrument("trends", s.handleTrends))
	mux.HandleFunc("GET /api/trends/range", s.instrument("trends_range", s.handleTrendRange))

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// instrument wraps a handler with request counting and duration metrics.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		s.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		s.metrics.HTTPRequests.WithLabelValues(endpoint, outcome(rec.status)).Inc()
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func outcome(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "client_error"
	default:
		return "ok"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// writeError maps the domain error taxonomy onto HTTP statuses: rejected
// preconditions are the caller's fault, a store failure is a hard 503 for
// the requested view.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrNoSelection):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logger.Error("report store failure", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "report store unavailable"})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
