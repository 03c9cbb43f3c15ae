package ingester

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/engine"
)

// KafkaIngester consumes campaign events from a kafka topic and feeds them
// to the decision engine. It is an alternative entry point to the HTTP API
// for upstream producers (donation processors, news watchers, CRM syncs).
type KafkaIngester struct {
	engine *engine.Engine
	reader *kafka.Reader
}

// NewKafkaIngester returns a new KafkaIngester consuming the given topic
func NewKafkaIngester(eng *engine.Engine, brokers []string, topic string, groupID string) *KafkaIngester {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &KafkaIngester{
		engine: eng,
		reader: reader,
	}
}

// Run consumes messages until the context is cancelled. Malformed messages
// and engine-level rejections are logged and skipped; the loop only exits on
// context cancellation.
func (i *KafkaIngester) Run(ctx context.Context) {
	zap.L().Info("Kafka ingester started",
		zap.Strings("brokers", i.reader.Config().Brokers),
		zap.String("topic", i.reader.Config().Topic),
		zap.String("group_id", i.reader.Config().GroupID))

	for {
		message, err := i.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				zap.L().Info("Kafka ingester stopped")
				return
			}
			zap.L().Warn("Kafka read error", zap.Error(err))
			continue
		}

		event, err := decodeEvent(message.Value)
		if err != nil {
			zap.L().Warn("Skipping malformed event message", zap.Error(err),
				zap.String("topic", message.Topic), zap.Int64("offset", message.Offset))
			continue
		}

		result, err := i.engine.ProcessEvent(event)
		if err != nil {
			zap.L().Error("Event processing failed", zap.Error(err),
				zap.String("type", event.Type))
			continue
		}
		zap.L().Debug("Event processed from kafka",
			zap.String("type", event.Type),
			zap.String("decision", result.Decision),
			zap.Int("score", result.Score))
	}
}

// Close releases the underlying kafka reader
func (i *KafkaIngester) Close() error {
	return i.reader.Close()
}

func decodeEvent(raw []byte) (engine.Event, error) {
	var event engine.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return engine.Event{}, err
	}
	if event.Type == "" {
		return engine.Event{}, errors.New("missing event type")
	}
	return event, nil
}
