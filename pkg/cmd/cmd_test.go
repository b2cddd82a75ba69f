package cmd

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dukex/operion-betterstack/pkg/channels/kafka"
	"github.com/dukex/operion-betterstack/pkg/events"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceEventBus(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	bus, err := NewSourceEventBus(EventBusGoChannel, "", logger)
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	_, err = NewSourceEventBus(EventBusKafka, "", logger)
	require.ErrorIs(t, err, kafka.ErrNoBrokers)

	_, err = NewSourceEventBus("rabbitmq", "", logger)
	assert.ErrorContains(t, err, "unsupported event bus provider")
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(context.Background(), slog.New(slog.DiscardHandler), t.TempDir())
	require.NoError(t, err)

	_, ok := reg.GetNode(models.NodeTypeIncident)
	assert.True(t, ok)
	assert.Len(t, reg.GetAvailableNodes(), 8)
}

type recordingPublisher struct {
	published []*events.SourceEvent
}

func (p *recordingPublisher) PublishSourceEvent(_ context.Context, event *events.SourceEvent) error {
	p.published = append(p.published, event)

	return nil
}

func TestNewSourceEventCallback(t *testing.T) {
	publisher := &recordingPublisher{}
	callback := NewSourceEventCallback(publisher)

	err := callback(context.Background(), "incidents", events.ProviderWebhook, "incident.created", map[string]any{"id": "1"})
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	event := publisher.published[0]
	assert.Equal(t, "incidents", event.SourceID)
	assert.Equal(t, events.ProviderWebhook, event.ProviderID)
	assert.Equal(t, "incident.created", event.EventType)
	assert.Equal(t, "1", event.EventData["id"])
	assert.False(t, event.EmittedAt.IsZero())
}
