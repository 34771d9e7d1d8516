// Package client implements the upstream reverse-geocoding collaborator.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"findbin_backend/platform/config"
	"findbin_backend/platform/geo"
)

// Nominatim calls the OSM Nominatim /reverse endpoint. The usage policy
// requires an identifying User-Agent on every request.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// New creates a Nominatim client from configuration.
func New(cfg config.GeocodeConfig) *Nominatim {
	return &Nominatim{
		baseURL:   cfg.GetGeocodeBaseURL(),
		userAgent: cfg.GetGeocodeUserAgent(),
		http: &http.Client{
			Timeout: cfg.GetGeocodeTimeout(),
		},
	}
}

// Result is a successful reverse lookup: the display name plus the
// geocoder's structured address object, passed through untouched.
type Result struct {
	DisplayName string          `json:"display_name"`
	Address     json.RawMessage `json:"address,omitempty"`
}

type reverseResult struct {
	Result
	Error string `json:"error"`
}

// Reverse resolves a point to an address. Timeouts, non-2xx responses and
// empty results all return errors; the caller decides what to surface.
func (n *Nominatim) Reverse(ctx context.Context, p geo.Point) (Result, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("reverse geocode call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var result reverseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("reverse geocode decode: %w", err)
	}
	if result.Error != "" {
		return Result{}, fmt.Errorf("reverse geocode: %s", result.Error)
	}
	if result.DisplayName == "" {
		return Result{}, fmt.Errorf("reverse geocode: no address for %s", p.Key())
	}

	return result.Result, nil
}
