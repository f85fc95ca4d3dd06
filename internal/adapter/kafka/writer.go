package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes styled earthquake features to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes every feature of one refresh and writes them in a single
// WriteMessages call. Messages are keyed by USGS event id so updates to the
// same event land on the same partition.
func (w *Writer) Publish(ctx context.Context, features []domain.EarthquakeFeature, fetchedAt time.Time) error {
	if len(features) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(features))
	for i := range features {
		msg, err := serializeToMessage(features[i], fetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d features: %w", len(msgs), err)
	}
	w.logger.Debug("published styled earthquakes", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a styled earthquake feature into a Kafka message.
func serializeToMessage(f domain.EarthquakeFeature, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(domain.StyledEarthquake(f))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize earthquake %s: %w", f.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(f.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "depth_color", Value: []byte(domain.ColorForDepth(f.DepthKm))},
			{Key: "fetched_at", Value: []byte(fetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
