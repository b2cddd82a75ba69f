// Package monitorgroup provides the Better Stack monitor group node.
package monitorgroup

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

type Operation string

const (
	OperationGetMany     Operation = "getMany"
	OperationGet         Operation = "get"
	OperationCreate      Operation = "create"
	OperationUpdate      Operation = "update"
	OperationDelete      Operation = "delete"
	OperationGetMonitors Operation = "getMonitors"
)

var dispatcher = execution.Dispatcher[Operation]{
	Resource: "monitorGroup",
	Operations: []Operation{
		OperationGetMany,
		OperationGet,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationGetMonitors,
	},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany:     getMany,
		OperationGet:         get,
		OperationCreate:      create,
		OperationUpdate:      update,
		OperationDelete:      remove,
		OperationGetMonitors: getMonitors,
	},
}

func NewMonitorGroupNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeMonitorGroup, dispatcher, config, opts...)
}

func getMany(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.MonitorGroups.List, nil)
}

func get(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.MonitorGroups.Get(id))
}

func create(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	name, err := p.String("name")
	if err != nil {
		return nil, err
	}

	fields, err := p.Object("additionalFields")
	if err != nil {
		return nil, err
	}

	body, err := execution.BuildBody(fields, nil)
	if err != nil {
		return nil, err
	}

	body = execution.MergeBody(map[string]any{"name": name}, body)

	return execution.Records(ctx, client, betterstack.MonitorGroups.Create(body))
}

func update(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	fields, err := p.Object("updateFields")
	if err != nil {
		return nil, err
	}

	body, err := execution.BuildBody(fields, nil)
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.MonitorGroups.Update(id, body))
}

func remove(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	return execution.Delete(ctx, client, betterstack.MonitorGroups.Delete(id), execution.DeleteResult(id))
}

func getMonitors(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, func(query betterstack.Query) betterstack.Request {
		return betterstack.MonitorGroups.ListMonitors(id, query)
	}, nil)
}
