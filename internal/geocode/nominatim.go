package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "ttool/0.1 (+https://github.com/star/ttool)"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// NominatimConfig configures a Nominatim client.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Transport wraps outgoing requests (metrics instrumentation); nil uses
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// Nominatim geocodes through a Nominatim search API.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNominatim creates a Nominatim client. Zero config fields take defaults.
func NewNominatim(cfg NominatimConfig, logger *slog.Logger) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Nominatim{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		logger: logger,
	}
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode returns the best match for query.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Place, error) {
	u, err := url.Parse(n.baseURL)
	if err != nil {
		return Place{}, fmt.Errorf("parsing geocoder URL: %w", err)
	}
	u = u.JoinPath("search")
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocoding %q: %w", query, err)
	}
	defer resp.Body.Close()

	n.logger.Debug("geocoder request",
		"component", "geocode",
		"query", query,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, n.baseURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Place{}, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return Place{}, fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return Place{}, fmt.Errorf("decoding geocoder response: %w", err)
	}
	if len(results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("invalid latitude %q for %q: %w", r.Lat, query, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("invalid longitude %q for %q: %w", r.Lon, query, err)
	}

	return Place{
		Name:      r.DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
