// Package monitor provides the Better Stack monitor node.
package monitor

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

// Operation is a monitor node operation.
type Operation string

const (
	OperationGetMany          Operation = "getMany"
	OperationGet              Operation = "get"
	OperationCreate           Operation = "create"
	OperationUpdate           Operation = "update"
	OperationDelete           Operation = "delete"
	OperationGetResponseTimes Operation = "getResponseTimes"
	OperationGetAvailability  Operation = "getAvailability"
)

var fieldRules = map[string]execution.FieldRule{
	"expected_status_codes": execution.IntListRule,
	"request_headers":       execution.JSONRule,
	"monitor_group_id":      execution.LocatorRule,
	"policy_id":             execution.LocatorRule,
}

var dispatcher = execution.Dispatcher[Operation]{
	Resource: "monitor",
	Operations: []Operation{
		OperationGetMany,
		OperationGet,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationGetResponseTimes,
		OperationGetAvailability,
	},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany:          getMany,
		OperationGet:              get,
		OperationCreate:           create,
		OperationUpdate:           update,
		OperationDelete:           remove,
		OperationGetResponseTimes: getResponseTimes,
		OperationGetAvailability:  getAvailability,
	},
}

// NewMonitorNode creates a monitor node.
func NewMonitorNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeMonitor, dispatcher, config, opts...)
}

func getMany(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	filters, err := p.Object("filters")
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.Monitors.List, betterstack.CleanQueryParams(filters))
}

func get(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("monitorId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Monitors.Get(id))
}

func create(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	monitorType, err := p.String("monitorType")
	if err != nil {
		return nil, err
	}

	url, err := p.String("url")
	if err != nil {
		return nil, err
	}

	name, err := p.String("pronounceableName")
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

	body = execution.MergeBody(map[string]any{
		"monitor_type":       monitorType,
		"url":                url,
		"pronounceable_name": name,
	}, body)

	return execution.Records(ctx, client, betterstack.Monitors.Create(body))
}

func update(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("monitorId")
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

	return execution.Records(ctx, client, betterstack.Monitors.Update(id, body))
}

func remove(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("monitorId")
	if err != nil {
		return nil, err
	}

	return execution.Delete(ctx, client, betterstack.Monitors.Delete(id), execution.DeleteResult(id))
}

func getResponseTimes(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("monitorId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Monitors.ResponseTimes(id, nil))
}

func getAvailability(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("monitorId")
	if err != nil {
		return nil, err
	}

	query, err := execution.DateRangeQuery(p, "dateRange")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Monitors.Availability(id, query))
}
