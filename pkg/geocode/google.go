package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"droscher.com/OhioBrewPath/configs"
)

var ErrMissingAPIKey = errors.New("geocoder api key is not configured")

// Point is a resolved coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Client looks up coordinates through the Google Geocoding API. Calls
// are paced by a shared rate limiter so concurrent workers respect one
// aggregate delay.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a geocoding client. A missing API key is a fatal
// configuration error; it is caught here, before any lookup happens.
func NewClient(cfg configs.Geocoder, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %w", configs.ErrConfiguration, ErrMissingAPIKey)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(cfg.Delay), 1),
		logger:     logger,
	}, nil
}

type response struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup resolves a free-text address. A nil point with a nil error
// means the service had no result, which is a normal outcome; errors
// are transport or service failures the caller may retry later.
func (c *Client) Lookup(ctx context.Context, address string) (*Point, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{"address": {address}, "key": {c.apiKey}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		c.logger.Debug("address did not resolve", zap.String("address", address), zap.String("status", decoded.Status))

		return nil, nil
	}

	location := decoded.Results[0].Geometry.Location
	if location.Lat < -90 || location.Lat > 90 || location.Lng < -180 || location.Lng > 180 {
		c.logger.Warn("geocoder returned out-of-range coordinates",
			zap.String("address", address), zap.Float64("lat", location.Lat), zap.Float64("lng", location.Lng))

		return nil, nil
	}

	return &Point{Lat: location.Lat, Lng: location.Lng}, nil
}
