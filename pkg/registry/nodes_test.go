package registry

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
	"github.com/dukex/operion-betterstack/pkg/testutil"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultNodes(t *testing.T) {
	registry := NewRegistry(slog.New(slog.DiscardHandler))
	registry.RegisterDefaultNodes()

	expectedNodes := []string{
		models.NodeTypeHeartbeat,
		models.NodeTypeHeartbeatGroup,
		models.NodeTypeIncident,
		models.NodeTypeMetadata,
		models.NodeTypeMonitor,
		models.NodeTypeMonitorGroup,
		models.NodeTypeStatusPage,
		models.NodeTypeTrigger,
	}

	available := registry.GetAvailableNodes()
	ids := make([]string, 0, len(available))

	for _, factory := range available {
		ids = append(ids, factory.ID())

		assert.NotEmpty(t, factory.Name(), factory.ID())
		assert.NotEmpty(t, factory.Description(), factory.ID())
		assert.Equal(t, "object", factory.Schema()["type"], factory.ID())
	}

	assert.Equal(t, expectedNodes, ids)
}

func TestRegisterDefaultNodes_ResourceNodesListOperations(t *testing.T) {
	registry := NewRegistry(slog.New(slog.DiscardHandler))
	registry.RegisterDefaultNodes()

	for _, factory := range registry.GetAvailableNodes() {
		if factory.ID() == models.NodeTypeTrigger {
			continue
		}

		provider, ok := factory.(protocol.OperationProvider)
		require.True(t, ok, factory.ID())
		assert.NotEmpty(t, provider.Operations(), factory.ID())
	}
}

func TestCreateNode_EveryDefaultNode(t *testing.T) {
	registry := NewRegistry(slog.New(slog.DiscardHandler))
	registry.RegisterDefaultNodes()

	configs := map[string]map[string]any{
		models.NodeTypeMonitor:        {"operation": "get", "monitorId": "1"},
		models.NodeTypeHeartbeat:      {"operation": "getMany", "limit": 10},
		models.NodeTypeIncident:       {"operation": "acknowledge", "incidentId": map[string]any{"mode": "list", "value": "7"}},
		models.NodeTypeStatusPage:     {"operation": "getMany", "returnAll": true},
		models.NodeTypeMetadata:       {"operation": "getMany"},
		models.NodeTypeMonitorGroup:   {"operation": "getMonitors", "groupId": "3"},
		models.NodeTypeHeartbeatGroup: {"operation": "getHeartbeats", "groupId": float64(4)},
		models.NodeTypeTrigger:        {"event": "monitor.down"},
	}

	for nodeType, config := range configs {
		t.Run(nodeType, func(t *testing.T) {
			node, err := registry.CreateNode(context.Background(), nodeType, "node-1", config)
			require.NoError(t, err)
			assert.Equal(t, "node-1", node.ID())
			assert.Equal(t, nodeType, node.Type())
		})
	}
}

func TestCreateNode_RejectsInvalidConfig(t *testing.T) {
	registry := NewRegistry(slog.New(slog.DiscardHandler))
	registry.RegisterDefaultNodes()

	tests := []struct {
		name     string
		nodeType string
		config   map[string]any
	}{
		{"unknown operation", models.NodeTypeMonitor, map[string]any{"operation": "explode"}},
		{"limit below minimum", models.NodeTypeHeartbeat, map[string]any{"operation": "getMany", "limit": 0}},
		{"returnAll not boolean", models.NodeTypeIncident, map[string]any{"operation": "getMany", "returnAll": "yes"}},
		{"unknown event", models.NodeTypeTrigger, map[string]any{"event": "incident.deleted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.CreateNode(context.Background(), tt.nodeType, "node-1", tt.config)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestCreateNode_NotRegistered(t *testing.T) {
	registry := NewRegistry(slog.New(slog.DiscardHandler))

	_, err := registry.CreateNode(context.Background(), "betterstack:unknown", "node-1", nil)
	require.ErrorIs(t, err, ErrNodeNotRegistered)

	err = registry.ValidateConfig("betterstack:unknown", nil)
	assert.ErrorIs(t, err, ErrNodeNotRegistered)
}

func TestExecutor_RunsRegisteredNode(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors", testutil.Response{
		Body: testutil.Page("",
			testutil.Resource("1", "monitor", map[string]any{"url": "https://a.test"}),
			testutil.Resource("2", "monitor", map[string]any{"url": "https://b.test"}),
		),
	})

	registry := NewRegistry(slog.New(slog.DiscardHandler))
	registry.RegisterDefaultNodes(backend.Options()...)

	node := testutil.CreateTestNode()
	result, err := workflow.NewExecutor(registry).Execute(context.Background(), node, nil,
		workflow.WithAPIToken("test-token"),
		workflow.WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)

	assert.Equal(t, string(models.NodeStatusSuccess), result.Status)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "https://b.test", result.Items[1].JSON["url"])
}
