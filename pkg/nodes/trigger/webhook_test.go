package trigger

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
	"github.com/dukex/operion-betterstack/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTriggerNode(t *testing.T) {
	node, err := NewTriggerNode("t1", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, models.EventAll, node.Event())
	assert.Equal(t, models.NodeTypeTrigger, node.Type())

	node, err = NewTriggerNode("t1", map[string]any{"event": "incident.resolved"})
	require.NoError(t, err)
	assert.Equal(t, models.EventIncidentResolved, node.Event())

	_, err = NewTriggerNode("t1", map[string]any{"event": "monitor.paused"})
	require.Error(t, err)
	assert.True(t, betterstack.IsMalformedInput(err))
}

func TestTriggerNode_HandleWebhook(t *testing.T) {
	node, err := NewTriggerNode("t1", map[string]any{"event": "*"})
	require.NoError(t, err)

	receivedAt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	body := map[string]any{
		"data": map[string]any{
			"id":         "42",
			"type":       "incident",
			"attributes": map[string]any{"name": "API down"},
		},
	}

	item, ok := node.HandleWebhook(context.Background(), protocol.WebhookRequest{
		Body:       body,
		Headers:    http.Header{"Content-Type": {"application/json"}, "X-Forwarded-For": {"1.1.1.1", "2.2.2.2"}},
		Query:      map[string]string{"token": "abc"},
		ReceivedAt: receivedAt,
	})
	require.True(t, ok)

	assert.Equal(t, map[string]any{
		"event":        "incident.created",
		"body":         body,
		"headers":      map[string]any{"content-type": "application/json", "x-forwarded-for": "1.1.1.1, 2.2.2.2"},
		"query":        map[string]any{"token": "abc"},
		"receivedAt":   "2024-03-01T12:30:00.000Z",
		"attributes":   map[string]any{"name": "API down"},
		"resourceId":   "42",
		"resourceType": "incident",
	}, item.JSON)
}

func TestTriggerNode_HandleWebhookFilters(t *testing.T) {
	node, err := NewTriggerNode("t1", map[string]any{"event": "monitor.down"})
	require.NoError(t, err)

	_, ok := node.HandleWebhook(context.Background(), protocol.WebhookRequest{
		Body: map[string]any{"monitor": map[string]any{"status": "up"}},
	})
	assert.False(t, ok)

	item, ok := node.HandleWebhook(context.Background(), protocol.WebhookRequest{
		Body: map[string]any{"monitor": map[string]any{"status": "down"}},
	})
	require.True(t, ok)
	assert.Equal(t, "monitor.down", item.JSON["event"])
	assert.NotContains(t, item.JSON, "resourceId")
}

func TestTriggerNode_Execute(t *testing.T) {
	node := testutil.CreateTestNode(testutil.WithTriggerNode("incident.resolved"))

	triggerNode, err := NewTriggerNodeFactory().Create(context.Background(), node.ID, node.Config)
	require.NoError(t, err)

	inputs := []models.Item{
		{JSON: map[string]any{"incident": map[string]any{"resolved_at": "2024-01-01"}}},
		{JSON: map[string]any{"incident": map[string]any{}}},
		{JSON: map[string]any{"data": map[string]any{"type": "incident", "attributes": map[string]any{"resolved_at": "2024-01-02"}}}},
	}

	output, err := triggerNode.Execute(context.Background(), testutil.NewExecution(node, inputs...))
	require.NoError(t, err)
	require.Len(t, output, 2)
	assert.Equal(t, 0, output[0].PairedItem.Item)
	assert.Equal(t, 2, output[1].PairedItem.Item)
	assert.Equal(t, "incident", output[1].JSON["resourceType"])
}
