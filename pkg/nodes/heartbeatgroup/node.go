// Package heartbeatgroup provides the Better Stack heartbeat group node.
package heartbeatgroup

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
	OperationGetHeartbeats Operation = "getHeartbeats"
)

var dispatcher = execution.Dispatcher[Operation]{
	Resource: "heartbeatGroup",
	Operations: []Operation{
		OperationGetMany,
		OperationGet,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationGetHeartbeats,
	},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany:     getMany,
		OperationGet:         get,
		OperationCreate:      create,
		OperationUpdate:      update,
		OperationDelete:      remove,
		OperationGetHeartbeats: getHeartbeats,
	},
}

func NewHeartbeatGroupNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeHeartbeatGroup, dispatcher, config, opts...)
}

func getMany(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.HeartbeatGroups.List, nil)
}

func get(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.HeartbeatGroups.Get(id))
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

	return execution.Records(ctx, client, betterstack.HeartbeatGroups.Create(body))
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

	return execution.Records(ctx, client, betterstack.HeartbeatGroups.Update(id, body))
}

func remove(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	return execution.Delete(ctx, client, betterstack.HeartbeatGroups.Delete(id), execution.DeleteResult(id))
}

func getHeartbeats(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("groupId")
	if err != nil {
		return nil, err
	}

	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, func(query betterstack.Query) betterstack.Request {
		return betterstack.HeartbeatGroups.ListHeartbeats(id, query)
	}, nil)
}
