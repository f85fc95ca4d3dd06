//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-styled-earthquakes"

const earthquakeFeed = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "ak0001", "properties": {"mag": 1.4, "place": "20 km S of Healy, Alaska", "time": 1717000000000},
     "geometry": {"type": "Point", "coordinates": [-149.0, 63.6, 95.2]}},
    {"type": "Feature", "id": "nc0002", "properties": {"mag": 3.2, "place": "5km NW of The Geysers, CA", "time": 1717000100000},
     "geometry": {"type": "Point", "coordinates": [-122.8, 38.8, 45]}},
    {"type": "Feature", "id": "hv0003", "properties": {"mag": null, "place": "Volcano, Hawaii", "time": 1717000200000},
     "geometry": {"type": "Point", "coordinates": [-155.3, 19.4, -1.5]}}
  ]
}`

const platesFeed = `{"type":"FeatureCollection","features":[]}`

type styledMessage struct {
	Key     string
	Headers map[string]string
	Style   domain.MarkerStyle
}

func readStyled(ctx context.Context, t *testing.T, consumer *kafkago.Reader) styledMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	var feature struct {
		Properties struct {
			Style domain.MarkerStyle `json:"style"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &feature), "unmarshal styled feature")

	return styledMessage{Key: string(msg.Key), Headers: headers, Style: feature.Properties.Style}
}

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /earthquakes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(earthquakeFeed))
	})
	mux.HandleFunc("GET /plates", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(platesFeed))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestRefreshPublishesStyledEarthquakes wires the feed client, refresher and
// Kafka writer against a real broker and checks every earthquake arrives styled.
func TestRefreshPublishesStyledEarthquakes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	feeds := newFeedServer(t)
	metrics := observability.NewMetricsForTesting()
	client := usgs.NewClient(feeds.URL+"/earthquakes", feeds.URL+"/plates", 5*time.Second, metrics, discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	refresher := pipeline.New(client, time.Hour, discardLogger(), metrics, pipeline.WithPublisher(writer))
	report := refresher.Refresh(ctx)
	require.True(t, report.Earthquakes.OK, report.Earthquakes.Error)
	require.True(t, report.Plates.OK, report.Plates.Error)
	require.Equal(t, 3, report.Earthquakes.Features)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]styledMessage, 3)
	for len(received) < 3 {
		msg := readStyled(ctx, t, consumer)
		received[msg.Key] = msg
	}

	deep := received["ak0001"]
	assert.Equal(t, "#cc3333", deep.Style.FillColor)
	assert.Equal(t, "#cc3333", deep.Headers["depth_color"])
	assert.InDelta(t, 7.0, deep.Style.Radius, 1e-9)

	mid := received["nc0002"]
	assert.Equal(t, "#ffcc66", mid.Style.FillColor)
	assert.InDelta(t, 16.0, mid.Style.Radius, 1e-9)

	shallow := received["hv0003"]
	assert.Equal(t, "#66ff66", shallow.Style.FillColor)
	assert.InDelta(t, 1.0, shallow.Style.Radius, 1e-9)

	for key, msg := range received {
		_, err := time.Parse(time.RFC3339, msg.Headers["fetched_at"])
		assert.NoError(t, err, "fetched_at on %s should be RFC3339", key)
	}
}

// TestPublishEmptyRefreshWritesNothing checks an empty feed produces no messages.
func TestPublishEmptyRefreshWritesNothing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.Publish(ctx, nil, time.Now()))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-empty-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	defer readCancel()
	_, err := consumer.ReadMessage(readCtx)
	assert.Error(t, err, "expected no message on topic")
}
