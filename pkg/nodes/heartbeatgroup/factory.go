package heartbeatgroup

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

type HeartbeatGroupNodeFactory struct {
	opts []betterstack.Option
}

func NewHeartbeatGroupNodeFactory(opts ...betterstack.Option) *HeartbeatGroupNodeFactory {
	return &HeartbeatGroupNodeFactory{opts: opts}
}

func (f *HeartbeatGroupNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewHeartbeatGroupNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *HeartbeatGroupNodeFactory) ID() string {
	return models.NodeTypeHeartbeatGroup
}

func (f *HeartbeatGroupNodeFactory) Name() string {
	return "Better Stack Heartbeat Group"
}

func (f *HeartbeatGroupNodeFactory) Description() string {
	return "Manage Better Stack heartbeat groups and list the heartbeats they contain"
}

func (f *HeartbeatGroupNodeFactory) Operations() []string {
	return dispatcher.Names()
}

func (f *HeartbeatGroupNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation":        execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"groupId":          execution.LocatorSchema("Heartbeat group to operate on"),
				"name":             map[string]any{"type": "string", "description": "Group name"},
				"additionalFields": execution.ObjectSchema("Extra group attributes such as sort_index and paused"),
				"updateFields":     execution.ObjectSchema("Group attributes to change"),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{"operation": "create", "name": "Batch jobs", "additionalFields": map[string]any{"sort_index": 1}},
			{"operation": "getHeartbeats", "groupId": "42", "returnAll": true},
		},
	}
}
