// Package usgs fetches the earthquake and plate boundary GeoJSON feeds.
package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/paulmach/orb/geojson"
)

// maxFeedBytes bounds a feed body. The all_week feed is typically a few MB.
const maxFeedBytes = 64 << 20

// StatusError reports a non-200 response from a feed.
type StatusError struct {
	Feed       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s feed: unexpected status %d: %s", e.Feed, e.StatusCode, e.Body)
}

// TooLargeError reports a feed body over the client's size limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("body exceeds %d bytes", e.Limit)
}

// Client fetches both feeds over HTTP.
type Client struct {
	httpClient    *http.Client
	earthquakeURL string
	platesURL     string
	userAgent     string
	maxBytes      int64
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates a feed client with the given per-request timeout.
func NewClient(earthquakeURL, platesURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		earthquakeURL: earthquakeURL,
		platesURL:     platesURL,
		userAgent:     "quake-map-service",
		maxBytes:      maxFeedBytes,
		metrics:       metrics,
		logger:        logger,
	}
}

// FetchEarthquakes downloads and decodes the earthquake feed.
func (c *Client) FetchEarthquakes(ctx context.Context) ([]domain.EarthquakeFeature, error) {
	start := time.Now()
	features, err := c.fetchEarthquakes(ctx)
	c.observe(domain.FeedEarthquakes, start, err)
	return features, err
}

func (c *Client) fetchEarthquakes(ctx context.Context) ([]domain.EarthquakeFeature, error) {
	body, err := c.get(ctx, domain.FeedEarthquakes, c.earthquakeURL)
	if err != nil {
		return nil, err
	}
	features, skipped, err := domain.ParseEarthquakes(body)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		c.logger.Warn("skipping earthquake without usable geometry",
			"feature_id", s.ID,
			"index", s.Index,
			"reason", s.Reason,
		)
	}
	if len(skipped) > 0 {
		c.metrics.FeaturesSkipped.WithLabelValues(domain.FeedEarthquakes).Add(float64(len(skipped)))
	}
	return features, nil
}

// FetchPlates downloads the plate boundary feed and applies the boundary line style.
func (c *Client) FetchPlates(ctx context.Context) (*geojson.FeatureCollection, error) {
	start := time.Now()
	fc, err := c.fetchPlates(ctx)
	c.observe(domain.FeedPlates, start, err)
	return fc, err
}

func (c *Client) fetchPlates(ctx context.Context) (*geojson.FeatureCollection, error) {
	body, err := c.get(ctx, domain.FeedPlates, c.platesURL)
	if err != nil {
		return nil, err
	}
	return domain.ParsePlates(body)
}

func (c *Client) get(ctx context.Context, feed, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", feed, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Feed: feed, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", feed, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%s feed: %w", feed, &TooLargeError{Limit: c.maxBytes})
	}
	return body, nil
}

func (c *Client) observe(feed string, start time.Time, err error) {
	elapsed := time.Since(start)
	c.metrics.FeedFetchDuration.WithLabelValues(feed).Observe(elapsed.Seconds())
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues(feed, "error").Inc()
		return
	}
	c.metrics.FeedFetches.WithLabelValues(feed, "success").Inc()
	c.logger.Debug("feed fetched", "feed", feed, "duration", elapsed)
}
