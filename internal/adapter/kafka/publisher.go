// Package kafka publishes directory changes to a Kafka topic, one message
// per added, updated or removed entry.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/oherrala/wwff-directory/internal/config"
	"github.com/oherrala/wwff-directory/internal/domain"
)

// Publisher produces directory change messages.
// It implements directory.ChangePublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured change topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishChanges serializes and publishes all changes of one refresh in a
// single WriteMessages call. Messages are keyed by reference so a compacted
// topic retains the latest state of every entry.
func (p *Publisher) PublishChanges(ctx context.Context, snapshotID string, changes []domain.Change) error {
	if len(changes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(changes))
	for i := range changes {
		msg, err := serializeChange(snapshotID, changes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write change messages: %w", err)
	}
	p.logger.Debug("published directory changes", "snapshot_id", snapshotID, "count", len(changes))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeChange marshals one change into a Kafka message.
func serializeChange(snapshotID string, change domain.Change) (kafkago.Message, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize change for %s: %w", change.Reference, err)
	}
	return kafkago.Message{
		Key:   []byte(change.Reference),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "change", Value: []byte(change.Kind)},
			{Key: "snapshot_id", Value: []byte(snapshotID)},
		},
	}, nil
}
