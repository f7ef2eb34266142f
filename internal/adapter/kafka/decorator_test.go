package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

type fixedCharts struct {
	result chart.Result
}

func (f *fixedCharts) Calculate(_ context.Context, _ domain.BirthRequest) chart.Result {
	return f.result
}

type recordingPublisher struct {
	published []chart.Result
	err       error
}

func (r *recordingPublisher) Publish(_ context.Context, _ domain.BirthRequest, res chart.Result) error {
	r.published = append(r.published, res)
	return r.err
}

func newPublishingService(result chart.Result, pub *recordingPublisher) *PublishingService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPublishingService(&fixedCharts{result: result}, pub, logger)
}

func TestPublishingService_PublishesComputedCharts(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPublishingService(chart.Result{Success: true, SunSign: "Leo"}, pub)

	res := svc.Calculate(context.Background(), domain.BirthRequest{BirthDate: "1990-08-01"})

	assert.Equal(t, "Leo", res.SunSign)
	assert.Len(t, pub.published, 1)
}

func TestPublishingService_SkipsDegradedCharts(t *testing.T) {
	pub := &recordingPublisher{}

	// No placements computed: nothing to publish.
	svc := newPublishingService(chart.Result{Success: true, Warnings: []string{"no location"}}, pub)
	svc.Calculate(context.Background(), domain.BirthRequest{})
	assert.Empty(t, pub.published)

	// Terminal failure: nothing to publish.
	svc = newPublishingService(chart.Result{Success: false, Error: "invalid birth date"}, pub)
	svc.Calculate(context.Background(), domain.BirthRequest{})
	assert.Empty(t, pub.published)
}

func TestPublishingService_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newPublishingService(chart.Result{Success: true, SunSign: "Leo"}, pub)

	res := svc.Calculate(context.Background(), domain.BirthRequest{})

	assert.True(t, res.Success, "publish failure must not fail the chart")
	assert.Equal(t, "Leo", res.SunSign)
}
