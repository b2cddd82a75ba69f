// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dukex/operion-betterstack/pkg/channels/kafka"
	"github.com/dukex/operion-betterstack/pkg/eventbus"
)

// Event bus providers.
const (
	EventBusGoChannel = "gochannel"
	EventBusKafka     = "kafka"
)

// NewSourceEventBus creates a source event bus for the provider. brokers is
// the comma-separated Kafka broker list.
func NewSourceEventBus(provider, brokers string, logger *slog.Logger) (eventbus.SourceEventBus, error) {
	switch provider {
	case EventBusKafka:
		bus, err := eventbus.NewKafkaSourceEventBus(kafka.ParseBrokers(brokers), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka source event bus: %w", err)
		}

		return bus, nil
	case EventBusGoChannel, "":
		return eventbus.NewGoChannelSourceEventBus(logger), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
