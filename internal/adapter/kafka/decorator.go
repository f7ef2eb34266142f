package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// ChartService is the calculator interface the decorator wraps.
type ChartService interface {
	Calculate(ctx context.Context, req domain.BirthRequest) chart.Result
}

// chartPublisher abstracts the producer so tests don't need a broker.
type chartPublisher interface {
	Publish(ctx context.Context, req domain.BirthRequest, res chart.Result) error
}

// PublishingService decorates a chart calculator with best-effort event
// publishing. Charts whose astronomy stage completed are published; publish
// failures are logged and never surface to the caller.
type PublishingService struct {
	inner     ChartService
	publisher chartPublisher
	logger    *slog.Logger
}

// NewPublishingService wraps a calculator with chart event publishing.
func NewPublishingService(inner ChartService, publisher chartPublisher, logger *slog.Logger) *PublishingService {
	return &PublishingService{inner: inner, publisher: publisher, logger: logger}
}

// Calculate delegates to the wrapped calculator and publishes the result.
func (s *PublishingService) Calculate(ctx context.Context, req domain.BirthRequest) chart.Result {
	res := s.inner.Calculate(ctx, req)
	if !res.Success || res.SunSign == "" {
		// Terminal failures and degraded charts without placements are not
		// worth an event.
		return res
	}

	if err := s.publisher.Publish(ctx, req, res); err != nil {
		s.logger.Warn("chart event publish failed", "error", err)
	}
	return res
}
