package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/glacier-data-etl/internal/config"
	"github.com/couchcryptid/glacier-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces glacier snapshots to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple snapshots in a single
// WriteMessages call. Snapshots are keyed by glacier id so every version of a
// glacier lands on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, snapshots []domain.GlacierSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snapshots))
	for i := range snapshots {
		msg, err := serializeToMessage(snapshots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write glacier snapshots: %w", err)
	}
	w.logger.Debug("snapshots published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a GlacierSnapshot into a Kafka message.
func serializeToMessage(s domain.GlacierSnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize glacier snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.GlacierID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "unit", Value: []byte(s.Unit)},
			{Key: "loaded_at", Value: []byte(s.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
