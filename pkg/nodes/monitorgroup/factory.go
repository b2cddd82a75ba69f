package monitorgroup

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

type MonitorGroupNodeFactory struct {
	opts []betterstack.Option
}

func NewMonitorGroupNodeFactory(opts ...betterstack.Option) *MonitorGroupNodeFactory {
	return &MonitorGroupNodeFactory{opts: opts}
}

func (f *MonitorGroupNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewMonitorGroupNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *MonitorGroupNodeFactory) ID() string {
	return models.NodeTypeMonitorGroup
}

func (f *MonitorGroupNodeFactory) Name() string {
	return "Better Stack Monitor Group"
}

func (f *MonitorGroupNodeFactory) Description() string {
	return "Manage Better Stack monitor groups and list the monitors they contain"
}

func (f *MonitorGroupNodeFactory) Operations() []string {
	return dispatcher.Names()
}

func (f *MonitorGroupNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation":        execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"groupId":          execution.LocatorSchema("Monitor group to operate on"),
				"name":             map[string]any{"type": "string", "description": "Group name"},
				"additionalFields": execution.ObjectSchema("Extra group attributes such as sort_index and paused"),
				"updateFields":     execution.ObjectSchema("Group attributes to change"),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{"operation": "create", "name": "Production", "additionalFields": map[string]any{"sort_index": 1}},
			{"operation": "getMonitors", "groupId": "42", "returnAll": true},
		},
	}
}
