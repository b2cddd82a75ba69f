// Package heartbeat provides the Better Stack heartbeat node.
package heartbeat

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

type Operation string

const (
	OperationGetMany         Operation = "getMany"
	OperationGet             Operation = "get"
	OperationCreate          Operation = "create"
	OperationUpdate          Operation = "update"
	OperationDelete          Operation = "delete"
	OperationGetAvailability Operation = "getAvailability"
)

var fieldRules = map[string]execution.FieldRule{
	"heartbeat_group_id": execution.LocatorRule,
	"policy_id":          execution.LocatorRule,
}

var dispatcher = execution.Dispatcher[Operation]{
	Resource: "heartbeat",
	Operations: []Operation{
		OperationGetMany,
		OperationGet,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationGetAvailability,
	},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany:         getMany,
		OperationGet:             get,
		OperationCreate:          create,
		OperationUpdate:          update,
		OperationDelete:          remove,
		OperationGetAvailability: getAvailability,
	},
}

// NewHeartbeatNode creates a heartbeat node.
func NewHeartbeatNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeHeartbeat, dispatcher, config, opts...)
}

func getMany(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.Heartbeats.List, nil)
}

func get(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("heartbeatId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Heartbeats.Get(id))
}

func create(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	name, err := p.String("name")
	if err != nil {
		return nil, err
	}

	// period and grace are seconds
	period, err := p.RequiredInt("period")
	if err != nil {
		return nil, err
	}

	grace, err := p.RequiredInt("grace")
	if err != nil {
		return nil, err
	}

	fields, err := p.Object("additionalFields")
	if err != nil {
		return nil, err
	}

	body, err := execution.BuildBody(fields, fieldRules)
	if err != nil {
		return nil, err
	}

	body = execution.MergeBody(map[string]any{"name": name, "period": period, "grace": grace}, body)

	return execution.Records(ctx, client, betterstack.Heartbeats.Create(body))
}

func update(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("heartbeatId")
	if err != nil {
		return nil, err
	}

	fields, err := p.Object("updateFields")
	if err != nil {
		return nil, err
	}

	body, err := execution.BuildBody(fields, fieldRules)
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Heartbeats.Update(id, body))
}

func remove(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("heartbeatId")
	if err != nil {
		return nil, err
	}

	return execution.Delete(ctx, client, betterstack.Heartbeats.Delete(id), execution.DeleteResult(id))
}

func getAvailability(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("heartbeatId")
	if err != nil {
		return nil, err
	}

	query, err := execution.DateRangeQuery(p, "dateRange")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Heartbeats.Availability(id, query))
}
