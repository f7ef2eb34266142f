// Package photon implements domain.Geocoder against the Komoot Photon API,
// used as the fallback provider when Nominatim yields nothing.
package photon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// Client queries the Photon geocoding endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Photon geocoding client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "photon" }

// Geocode resolves a free-text address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	params := url.Values{
		"q":     {address},
		"limit": {"1"},
	}
	fullURL := c.baseURL + "/api?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("photon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Coordinates{}, fmt.Errorf("photon API error: status %d: %s", resp.StatusCode, body)
	}

	var photonResp response
	if err := json.NewDecoder(resp.Body).Decode(&photonResp); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}
	if len(photonResp.Features) == 0 {
		return domain.Coordinates{}, domain.ErrNotFound
	}

	coords := photonResp.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("photon feature has %d coordinates", len(coords))
	}

	// GeoJSON uses lon,lat order.
	return domain.Coordinates{Latitude: coords[1], Longitude: coords[0]}, nil
}

// Photon API response types (GeoJSON FeatureCollection).

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry geometry `json:"geometry"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}
