package heartbeat

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// HeartbeatNodeFactory creates heartbeat nodes.
type HeartbeatNodeFactory struct {
	opts []betterstack.Option
}

func NewHeartbeatNodeFactory(opts ...betterstack.Option) *HeartbeatNodeFactory {
	return &HeartbeatNodeFactory{opts: opts}
}

func (f *HeartbeatNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewHeartbeatNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *HeartbeatNodeFactory) ID() string {
	return models.NodeTypeHeartbeat
}

func (f *HeartbeatNodeFactory) Name() string {
	return "Better Stack Heartbeat"
}

func (f *HeartbeatNodeFactory) Description() string {
	return "Manage Better Stack heartbeats for cron jobs and background tasks"
}

func (f *HeartbeatNodeFactory) Operations() []string {
	return dispatcher.Names()
}

func (f *HeartbeatNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation":   execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"heartbeatId": execution.LocatorSchema("Heartbeat to operate on"),
				"name":        map[string]any{"type": "string", "description": "Heartbeat name"},
				"period": map[string]any{
					"type":        "integer",
					"description": "Expected time between pings, in seconds",
					"minimum":     30,
					"default":     86400,
				},
				"grace": map[string]any{
					"type":        "integer",
					"description": "Accepted delay before alerting, in seconds",
					"minimum":     0,
					"default":     300,
				},
				"additionalFields": execution.ObjectSchema("Extra heartbeat attributes sent on create"),
				"updateFields":     execution.ObjectSchema("Heartbeat attributes to change"),
				"dateRange":        execution.DateRangeSchema(),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{"operation": "create", "name": "Nightly backup", "period": 86400, "grace": 600},
			{"operation": "getAvailability", "heartbeatId": "123", "dateRange": map[string]any{"from": "2024-01-01"}},
		},
	}
}
