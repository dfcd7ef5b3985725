package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/india-cartogram/internal/config"
	"github.com/couchcryptid/india-cartogram/internal/domain"
)

const dateLayout = "2006-01-02"

// Writer produces one message per region to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// regionMessage is the wire form of one derived region.
type regionMessage struct {
	domain.RegionSeries
	Category    domain.Category `json:"category"`
	Field       domain.Field    `json:"field"`
	Scale       domain.Scale    `json:"scale"`
	UniformMax  float64         `json:"uniform_max"`
	Dates       []string        `json:"dates"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Publish serializes every region of the snapshot and writes them in a single
// WriteMessages call. Regions are keyed by code so a region always lands on
// the same partition.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msgs, err := snapshotMessages(snap)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d region messages: %w", len(msgs), err)
	}
	w.logger.Debug("snapshot published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func snapshotMessages(snap domain.Snapshot) ([]kafkago.Message, error) {
	layout := snap.Layout
	dates := make([]string, len(layout.Dates))
	for i, d := range layout.Dates {
		dates[i] = d.Format(dateLayout)
	}

	msgs := make([]kafkago.Message, len(layout.Regions))
	for i, r := range layout.Regions {
		msg, err := serializeToMessage(regionMessage{
			RegionSeries: r,
			Category:     layout.Category,
			Field:        layout.Field,
			Scale:        layout.Scale,
			UniformMax:   layout.UniformMax,
			Dates:        dates,
			GeneratedAt:  snap.GeneratedAt,
		})
		if err != nil {
			return nil, err
		}
		msgs[i] = msg
	}
	return msgs, nil
}

// serializeToMessage marshals a region into a Kafka message.
func serializeToMessage(m regionMessage) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region %s: %w", m.Key, err)
	}
	return kafkago.Message{
		Key:   []byte(m.Key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(m.Category)},
			{Key: "field", Value: []byte(m.Field)},
			{Key: "generated_at", Value: []byte(m.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
