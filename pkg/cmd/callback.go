package cmd

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/eventbus"
	"github.com/dukex/operion-betterstack/pkg/events"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// NewSourceEventCallback returns a callback publishing every emitted event
// to bus.
func NewSourceEventCallback(bus eventbus.SourceEventPublisher) protocol.SourceEventCallback {
	return func(ctx context.Context, sourceID, providerID, eventType string, eventData map[string]any) error {
		return bus.PublishSourceEvent(ctx, events.NewSourceEvent(sourceID, providerID, eventType, eventData))
	}
}
