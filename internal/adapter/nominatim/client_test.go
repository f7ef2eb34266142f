package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "natal-chart-service-test"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Newport News, Virginia, United States", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"37.0299","lon":"-76.4327","display_name":"Newport News, Virginia, United States"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 5*time.Second, discardLogger())
	coords, err := c.Geocode(context.Background(), "Newport News, Virginia, United States")
	require.NoError(t, err)

	assert.InDelta(t, 37.0299, coords.Latitude, 1e-6)
	assert.InDelta(t, -76.4327, coords.Longitude, 1e-6)
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 5*time.Second, discardLogger())
	_, err := c.Geocode(context.Background(), "Nowheresville")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Geocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 5*time.Second, discardLogger())
	_, err := c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 50*time.Millisecond, discardLogger())
	_, err := c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
}

func TestClient_Geocode_BadCoordinateStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"-76.4327"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 5*time.Second, discardLogger())
	_, err := c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse latitude")
}
