// Package kafka publishes the cleaned record set for downstream consumers.
// The sink is optional; a plain batch run never touches Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"cherrymap/internal/config"
	"cherrymap/internal/domain"
)

// Writer publishes cherry records to a Kafka topic. It implements
// pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Emit serializes and publishes the record set in a single WriteMessages
// call. Messages are keyed by cultivar name so one cultivar's records land
// on one partition.
func (w *Writer) Emit(ctx context.Context, records []domain.CherryRecord, _ domain.BoundaryCollection) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish cherry records: %w", err)
	}
	w.logger.Info("records published", "topic", w.writer.Topic, "count", len(records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CherryRecord into a Kafka message.
func serializeToMessage(record domain.CherryRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cherry record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.CultivarName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "cultivar_name", Value: []byte(record.CultivarName)},
			{Key: "processed_at", Value: []byte(record.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
