package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dukex/operion-betterstack/pkg/channels/gochannel"
	"github.com/dukex/operion-betterstack/pkg/channels/kafka"
	"github.com/dukex/operion-betterstack/pkg/events"
)

// Metadata keys set on every published message.
const (
	MetadataKey        = "key"
	MetadataSourceID   = "source_id"
	MetadataProviderID = "provider_id"
	MetadataEventType  = "event_type"
)

// WatermillSourceEventBus implements SourceEventBus on a watermill
// publisher/subscriber pair.
type WatermillSourceEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger

	mu       sync.RWMutex
	handlers []SourceEventHandler
}

func NewWatermillSourceEventBus(pub message.Publisher, sub message.Subscriber, logger *slog.Logger) *WatermillSourceEventBus {
	return &WatermillSourceEventBus{
		publisher:  pub,
		subscriber: sub,
		logger:     logger.With("module", "source_event_bus"),
	}
}

// NewKafkaSourceEventBus creates a source event bus backed by Kafka.
func NewKafkaSourceEventBus(brokers []string, logger *slog.Logger) (*WatermillSourceEventBus, error) {
	pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "betterstack-source-events", brokers)
	if err != nil {
		return nil, err
	}

	return NewWatermillSourceEventBus(pub, sub, logger), nil
}

// NewGoChannelSourceEventBus creates an in-process source event bus.
func NewGoChannelSourceEventBus(logger *slog.Logger) *WatermillSourceEventBus {
	pub, sub := gochannel.CreateChannel(watermill.NewSlogLogger(logger))

	return NewWatermillSourceEventBus(pub, sub, logger)
}

// PublishSourceEvent validates and publishes a source event. The source ID is
// the partition key.
func (b *WatermillSourceEventBus) PublishSourceEvent(ctx context.Context, sourceEvent *events.SourceEvent) error {
	if err := sourceEvent.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(sourceEvent)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to marshal source event", "error", err, "source_id", sourceEvent.SourceID)

		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataKey, sourceEvent.SourceID)
	msg.Metadata.Set(MetadataSourceID, sourceEvent.SourceID)
	msg.Metadata.Set(MetadataProviderID, sourceEvent.ProviderID)
	msg.Metadata.Set(MetadataEventType, sourceEvent.EventType)

	b.logger.DebugContext(ctx, "Publishing source event",
		"source_id", sourceEvent.SourceID,
		"provider_id", sourceEvent.ProviderID,
		"event_type", sourceEvent.EventType,
		"topic", events.SourceEventsTopic)

	if err := b.publisher.Publish(events.SourceEventsTopic, msg); err != nil {
		b.logger.ErrorContext(ctx, "Failed to publish source event", "error", err)

		return err
	}

	return nil
}

// HandleSourceEvents registers a handler for source events.
func (b *WatermillSourceEventBus) HandleSourceEvents(handler SourceEventHandler) error {
	if handler == nil {
		return errors.New("source event handler is nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)

	return nil
}

// SubscribeToSourceEvents starts consuming source events. A message is acked
// only when every handler succeeds.
func (b *WatermillSourceEventBus) SubscribeToSourceEvents(ctx context.Context) error {
	b.mu.RLock()
	handlers := append([]SourceEventHandler(nil), b.handlers...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.WarnContext(ctx, "No handlers registered for source events")

		return nil
	}

	messages, err := b.subscriber.Subscribe(ctx, events.SourceEventsTopic)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to subscribe", "error", err, "topic", events.SourceEventsTopic)

		return err
	}

	go func() {
		for msg := range messages {
			var sourceEvent events.SourceEvent
			if err := json.Unmarshal(msg.Payload, &sourceEvent); err != nil {
				b.logger.ErrorContext(ctx, "Failed to unmarshal source event", "error", err, "message_id", msg.UUID)
				msg.Nack()

				continue
			}

			success := true

			for i, handler := range handlers {
				if err := handler(ctx, &sourceEvent); err != nil {
					b.logger.ErrorContext(ctx, "Source event handler failed",
						"error", err, "source_id", sourceEvent.SourceID, "handler_index", i)

					success = false
				}
			}

			if success {
				msg.Ack()
			} else {
				msg.Nack()
			}
		}
	}()

	b.logger.InfoContext(ctx, "Source event subscription started", "topic", events.SourceEventsTopic)

	return nil
}

// Close shuts down the publisher and the subscriber.
func (b *WatermillSourceEventBus) Close() error {
	return errors.Join(b.publisher.Close(), b.subscriber.Close())
}
