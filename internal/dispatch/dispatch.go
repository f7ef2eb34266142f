// Package dispatch routes a raw request envelope to the right calculator
// and shapes failures into the structured response contract: only a
// malformed envelope escapes as an error, everything else comes back as a
// JSON-ready result with a success flag.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/observability"
	"github.com/couchcryptid/natal-chart-service/internal/sky"
)

// Request type discriminators. Anything else falls through to birth chart.
const (
	TypeMoonPhase      = "moon_phase"
	TypeCurrentPlanets = "current_planets"
	TypeTransits       = "transits"
)

// Envelope is the single input object. The discriminator decides which
// field group is read; unused fields are ignored.
type Envelope struct {
	Type string `json:"type,omitempty"`
	domain.BirthRequest
	sky.NatalPoints
}

// ErrorResult is the failure body used when a calculator cannot produce its
// normal result shape.
type ErrorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ChartCalculator produces birth charts.
type ChartCalculator interface {
	Calculate(ctx context.Context, req domain.BirthRequest) chart.Result
}

// SkyCalculator produces current sky state.
type SkyCalculator interface {
	MoonPhase() (sky.MoonPhaseResult, error)
	CurrentPlanets() (sky.PlanetsResult, error)
	Transits(natal sky.NatalPoints) (sky.TransitsResult, error)
}

// Handler routes envelopes to calculators.
type Handler struct {
	charts  ChartCalculator
	sky     SkyCalculator
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandler creates a request handler.
func NewHandler(charts ChartCalculator, skyCalc SkyCalculator, logger *slog.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{charts: charts, sky: skyCalc, logger: logger, metrics: metrics}
}

// Handle parses one raw envelope and dispatches it. The returned value is
// always marshalable to the response contract. A non-nil error means the
// envelope itself was unparsable — the caller decides the exit behavior.
func (h *Handler) Handle(ctx context.Context, raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.metrics.ChartRequests.WithLabelValues("malformed", "error").Inc()
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return h.HandleEnvelope(ctx, env), nil
}

// HandleEnvelope dispatches an already-parsed envelope.
func (h *Handler) HandleEnvelope(ctx context.Context, env Envelope) any {
	switch env.Type {
	case TypeMoonPhase:
		res, err := h.sky.MoonPhase()
		return h.outcome(TypeMoonPhase, res, err, res.Success)
	case TypeCurrentPlanets:
		res, err := h.sky.CurrentPlanets()
		return h.outcome(TypeCurrentPlanets, res, err, res.Success)
	case TypeTransits:
		res, err := h.sky.Transits(env.NatalPoints)
		return h.outcome(TypeTransits, res, err, res.Success)
	default:
		res := h.charts.Calculate(ctx, env.BirthRequest)
		return h.outcome("birth_chart", res, nil, res.Success)
	}
}

// outcome records metrics and converts calculator errors into the in-body
// failure shape. Calculator errors never abort the process.
func (h *Handler) outcome(requestType string, res any, err error, success bool) any {
	if err != nil {
		h.logger.Error("request failed", "type", requestType, "error", err)
		h.metrics.ChartRequests.WithLabelValues(requestType, "error").Inc()
		return ErrorResult{Success: false, Error: err.Error()}
	}

	label := "success"
	if !success {
		label = "error"
	}
	h.metrics.ChartRequests.WithLabelValues(requestType, label).Inc()
	return res
}
