// Package http exposes the chart and sky state calculators over HTTP,
// alongside health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/sky"
)

// ChartService computes birth charts.
type ChartService interface {
	Calculate(ctx context.Context, req domain.BirthRequest) chart.Result
}

// SkyService computes current sky state.
type SkyService interface {
	MoonPhase() (sky.MoonPhaseResult, error)
	CurrentPlanets() (sky.PlanetsResult, error)
	Transits(natal sky.NatalPoints) (sky.TransitsResult, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
// The check is in-process (ephemeris self-query), so it takes no context.
type ReadinessChecker interface {
	CheckReadiness() error
}

// Server exposes the calculator routes plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	charts     ChartService
	sky        SkyService
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, charts ChartService, skyCalc SkyService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		charts: charts,
		sky:    skyCalc,
		logger: logger,
	}

	mux.HandleFunc("POST /v1/chart", s.handleChart)
	mux.HandleFunc("GET /v1/sky/moon-phase", s.handleMoonPhase)
	mux.HandleFunc("GET /v1/sky/planets", s.handlePlanets)
	mux.HandleFunc("POST /v1/sky/transits", s.handleTransits)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
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

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var req domain.BirthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	res := s.charts.Calculate(r.Context(), req)
	status := http.StatusOK
	if !res.Success {
		// Only an unparsable date or time reaches here; everything else
		// degrades into warnings on a 200.
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func (s *Server) handleMoonPhase(w http.ResponseWriter, _ *http.Request) {
	res, err := s.sky.MoonPhase()
	if err != nil {
		s.logger.Error("moon phase failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlanets(w http.ResponseWriter, _ *http.Request) {
	res, err := s.sky.CurrentPlanets()
	if err != nil {
		s.logger.Error("current planets failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTransits(w http.ResponseWriter, r *http.Request) {
	var natal sky.NatalPoints
	if err := json.NewDecoder(r.Body).Decode(&natal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	res, err := s.sky.Transits(natal)
	if err != nil {
		s.logger.Error("transits failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := checker.CheckReadiness(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
