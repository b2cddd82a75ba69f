// Package statuspage provides the Better Stack status page node, including
// status page resources.
package statuspage

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

// MaxNavigationLinks is the number of navigation links a status page shows.
const MaxNavigationLinks = 4

type Operation string

const (
	OperationGetMany          Operation = "getMany"
	OperationGet              Operation = "get"
	OperationCreate           Operation = "create"
	OperationUpdate           Operation = "update"
	OperationDelete           Operation = "delete"
	OperationGetManyResources Operation = "getManyResources"
	OperationGetResource      Operation = "getResource"
	OperationCreateResource   Operation = "createResource"
	OperationUpdateResource   Operation = "updateResource"
	OperationDeleteResource   Operation = "deleteResource"
)

var fieldRules = map[string]execution.FieldRule{
	"ip_allowlist":     execution.CommaListRule,
	"navigation_links": execution.CappedCollectionRule("links", MaxNavigationLinks),
}

var dispatcher = execution.Dispatcher[Operation]{
	Resource: "statusPage",
	Operations: []Operation{
		OperationGetMany,
		OperationGet,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationGetManyResources,
		OperationGetResource,
		OperationCreateResource,
		OperationUpdateResource,
		OperationDeleteResource,
	},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany:          getMany,
		OperationGet:              get,
		OperationCreate:           create,
		OperationUpdate:           update,
		OperationDelete:           remove,
		OperationGetManyResources: getManyResources,
		OperationGetResource:      getResource,
		OperationCreateResource:   createResource,
		OperationUpdateResource:   updateResource,
		OperationDeleteResource:   deleteResource,
	},
}

// NewStatusPageNode creates a status page node.
func NewStatusPageNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeStatusPage, dispatcher, config, opts...)
}

func fieldsBody(p execution.Params, name string) (map[string]any, error) {
	fields, err := p.Object(name)
	if err != nil {
		return nil, err
	}

	return execution.BuildBody(fields, fieldRules)
}

func getMany(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.StatusPages.List, nil)
}

func get(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("statusPageId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.StatusPages.Get(id))
}

func create(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	companyName, err := p.String("companyName")
	if err != nil {
		return nil, err
	}

	subdomain, err := p.String("subdomain")
	if err != nil {
		return nil, err
	}

	timezone, err := p.String("timezone")
	if err != nil {
		return nil, err
	}

	fields, err := fieldsBody(p, "additionalFields")
	if err != nil {
		return nil, err
	}

	body := execution.MergeBody(map[string]any{
		"company_name": companyName,
		"subdomain":    subdomain,
		"timezone":     timezone,
	}, fields)

	return execution.Records(ctx, client, betterstack.StatusPages.Create(body))
}

func update(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("statusPageId")
	if err != nil {
		return nil, err
	}

	body, err := fieldsBody(p, "updateFields")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.StatusPages.Update(id, body))
}

func remove(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("statusPageId")
	if err != nil {
		return nil, err
	}

	return execution.Delete(ctx, client, betterstack.StatusPages.Delete(id), execution.DeleteResult(id))
}
