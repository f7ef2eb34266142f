// Package kafka publishes computed chart events for downstream consumers.
// Publishing is best-effort: a broker outage degrades to a logged warning
// and never fails the chart request.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/config"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// Publisher produces chart events to the configured topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the chart events topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.ChartEventsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// chartEvent is the published payload: the request that produced the chart
// plus the chart itself.
type chartEvent struct {
	Request    domain.BirthRequest `json:"request"`
	Chart      chart.Result        `json:"chart"`
	ComputedAt string              `json:"computed_at"`
}

// Publish emits one chart event keyed by the birth date. Errors are
// returned for logging but callers treat them as non-fatal.
func (p *Publisher) Publish(ctx context.Context, req domain.BirthRequest, res chart.Result) error {
	msg, err := serializeToMessage(req, res)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish chart event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a chart event into a Kafka message.
func serializeToMessage(req domain.BirthRequest, res chart.Result) (kafkago.Message, error) {
	event := chartEvent{
		Request:    req,
		Chart:      res,
		ComputedAt: domain.Now().Format(time.RFC3339),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize chart event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(req.BirthDate),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sun_sign", Value: []byte(res.SunSign)},
			{Key: "computed_at", Value: []byte(event.ComputedAt)},
		},
	}, nil
}
