package usgs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeGeoJSON = "application/geo+json"
	headerContentType  = "Content-Type"

	quakeBody = `{"type":"FeatureCollection","features":[
	  {"type":"Feature","id":"us7000m9g4","properties":{"mag":4.5,"place":"south of the Fiji Islands","time":1714145400000},
	   "geometry":{"type":"Point","coordinates":[178.1,-24.3,550.2]}}]}`

	plateBody = `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"Name":"PA-NA"},
	   "geometry":{"type":"LineString","coordinates":[[-124.5,40.3],[-125.1,40.4]]}}]}`
)

func testClient(quakeURL, platesURL string) *Client {
	return NewClient(quakeURL, platesURL, 5*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "quake-map-service", r.Header.Get("User-Agent"))
		w.Header().Set(headerContentType, contentTypeGeoJSON)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchEarthquakes_Success(t *testing.T) {
	srv := serveBody(t, http.StatusOK, quakeBody)
	c := testClient(srv.URL, srv.URL)

	features, err := c.FetchEarthquakes(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 1)

	f := features[0]
	assert.Equal(t, "us7000m9g4", f.ID)
	assert.Equal(t, "south of the Fiji Islands", f.Place)
	require.NotNil(t, f.Magnitude)
	assert.InDelta(t, 4.5, *f.Magnitude, 1e-9)
	assert.InDelta(t, 550.2, f.DepthKm, 1e-9)
	assert.Equal(t, "#cc3333", domain.StyleForFeature(f).FillColor)

	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues(domain.FeedEarthquakes, "success")), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues(domain.FeedEarthquakes, "error")), 1e-9)
}

func TestClient_FetchPlates_Success(t *testing.T) {
	srv := serveBody(t, http.StatusOK, plateBody)
	c := testClient(srv.URL, srv.URL)

	fc, err := c.FetchPlates(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "PA-NA", fc.Features[0].Properties["Name"])
	assert.Equal(t, domain.PlateLineStyle, fc.Features[0].Properties["style"])

	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues(domain.FeedPlates, "success")), 1e-9)
}

func TestClient_Fetch_StatusError(t *testing.T) {
	srv := serveBody(t, http.StatusServiceUnavailable, "upstream down")
	c := testClient(srv.URL, srv.URL)

	_, err := c.FetchEarthquakes(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, domain.FeedEarthquakes, statusErr.Feed)
	assert.Contains(t, err.Error(), "upstream down")

	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues(domain.FeedEarthquakes, "error")), 1e-9)
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "<html>maintenance</html>")
	c := testClient(srv.URL, srv.URL)

	_, err := c.FetchPlates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse plate feed")
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := serveBody(t, http.StatusOK, quakeBody)
	c := testClient(srv.URL, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchEarthquakes(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchEarthquakes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "earthquakes feed request")
}

func TestClient_FetchEarthquakes_SkipsFeatureWithoutGeometry(t *testing.T) {
	body := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","id":"us7000m9g4","properties":{"mag":4.5},"geometry":{"type":"Point","coordinates":[178.1,-24.3,550.2]}},
	  {"type":"Feature","id":"nn00877123","properties":{"mag":1.1},"geometry":null}]}`
	srv := serveBody(t, http.StatusOK, body)
	c := testClient(srv.URL, srv.URL)

	features, err := c.FetchEarthquakes(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "us7000m9g4", features[0].ID)

	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.FeaturesSkipped.WithLabelValues(domain.FeedEarthquakes)), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues(domain.FeedEarthquakes, "success")), 1e-9)
}

func TestClient_Fetch_BodyTooLarge(t *testing.T) {
	srv := serveBody(t, http.StatusOK, quakeBody)
	c := testClient(srv.URL, srv.URL)
	c.maxBytes = 32

	_, err := c.FetchEarthquakes(context.Background())
	require.Error(t, err)

	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(32), tooLarge.Limit)
	assert.EqualError(t, err, "earthquakes feed: body exceeds 32 bytes")
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.FeedFetches.WithLabelValues(domain.FeedEarthquakes, "error")), 1e-9)
}

func TestClient_Fetch_BodyAtLimit(t *testing.T) {
	srv := serveBody(t, http.StatusOK, plateBody)
	c := testClient(srv.URL, srv.URL)
	c.maxBytes = int64(len(plateBody))

	fc, err := c.FetchPlates(context.Background())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}
