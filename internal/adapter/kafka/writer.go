// Package kafka publishes donation records to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/donor-map/internal/config"
	"github.com/couchcryptid/donor-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes a view in a single WriteMessages call.
// Records are keyed by ID so re-exports of the same file land on the same
// partition.
func (w *Writer) LoadBatch(ctx context.Context, view domain.View) error {
	if len(view) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(view))
	for i, rec := range view {
		msg, err := serializeToMessage(rec)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d donor records: %w", len(msgs), err)
	}
	w.logger.Debug("donor records published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DonationRecord into a Kafka message.
func serializeToMessage(rec *domain.DonationRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize donation record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "gift_category", Value: []byte(rec.GiftCategory)},
			{Key: "state", Value: []byte(rec.State)},
		},
	}, nil
}
