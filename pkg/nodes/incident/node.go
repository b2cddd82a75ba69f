// Package incident provides the Better Stack incident node, including
// incident comments.
package incident

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

type Operation string

const (
	OperationGetMany       Operation = "getMany"
	OperationGet           Operation = "get"
	OperationCreate        Operation = "create"
	OperationDelete        Operation = "delete"
	OperationAcknowledge   Operation = "acknowledge"
	OperationResolve       Operation = "resolve"
	OperationEscalate      Operation = "escalate"
	OperationGetTimeline   Operation = "getTimeline"
	OperationGetComments   Operation = "getComments"
	OperationGetComment    Operation = "getComment"
	OperationCreateComment Operation = "createComment"
	OperationUpdateComment Operation = "updateComment"
	OperationDeleteComment Operation = "deleteComment"
)

var (
	createRules = map[string]execution.FieldRule{
		"policy_id": execution.LocatorRule,
	}

	escalateRules = map[string]execution.FieldRule{
		"policy_id":   execution.LocatorRule,
		"schedule_id": execution.LocatorRule,
		"team_id":     execution.LocatorRule,
		"user_id":     execution.LocatorRule,
		"metadata":    execution.JSONRule,
	}
)

var dispatcher = execution.Dispatcher[Operation]{
	Resource: "incident",
	Operations: []Operation{
		OperationGetMany,
		OperationGet,
		OperationCreate,
		OperationDelete,
		OperationAcknowledge,
		OperationResolve,
		OperationEscalate,
		OperationGetTimeline,
		OperationGetComments,
		OperationGetComment,
		OperationCreateComment,
		OperationUpdateComment,
		OperationDeleteComment,
	},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany:       getMany,
		OperationGet:           get,
		OperationCreate:        create,
		OperationDelete:        remove,
		OperationAcknowledge:   acknowledge,
		OperationResolve:       resolve,
		OperationEscalate:      escalate,
		OperationGetTimeline:   getTimeline,
		OperationGetComments:   getComments,
		OperationGetComment:    getComment,
		OperationCreateComment: createComment,
		OperationUpdateComment: updateComment,
		OperationDeleteComment: deleteComment,
	},
}

// NewIncidentNode creates an incident node.
func NewIncidentNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeIncident, dispatcher, config, opts...)
}

// listQuery converts incident list filters into query parameters. Locators
// are reduced to ids, metadata is expanded into metadata[key][] entries and
// only string and boolean filters are forwarded.
func listQuery(filters map[string]any) (betterstack.Query, error) {
	query := betterstack.Query{}

	for key, value := range filters {
		if execution.IsEmpty(value) {
			continue
		}

		switch key {
		case "monitor_id", "heartbeat_id":
			if id, ok := execution.LocatorValue(value); ok {
				query[key] = id
			}
		case "metadata":
			expanded, err := execution.ExpandMetadataFilter(key, value)
			if err != nil {
				return nil, err
			}

			query = query.Merge(expanded)
		default:
			switch value.(type) {
			case string, bool:
				query[key] = value
			}
		}
	}

	return query, nil
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

	query, err := listQuery(filters)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.Incidents.List, query)
}

func get(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Incidents.Get(id))
}

func create(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	requesterEmail, err := p.String("requester_email")
	if err != nil {
		return nil, err
	}

	summary, err := p.String("summary")
	if err != nil {
		return nil, err
	}

	fields, err := p.Object("createFields")
	if err != nil {
		return nil, err
	}

	body, err := execution.BuildBody(fields, createRules)
	if err != nil {
		return nil, err
	}

	body = execution.MergeBody(map[string]any{"requester_email": requesterEmail, "summary": summary}, body)

	return execution.Records(ctx, client, betterstack.Incidents.Create(body))
}

func remove(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	return execution.Delete(ctx, client, betterstack.Incidents.Delete(id), execution.DeleteResult(id))
}

// optionalBody returns {name: value} for a non-empty string parameter and nil
// otherwise, so an empty transition is sent without a body.
func optionalBody(p execution.Params, name string) map[string]any {
	value := p.StringOr(name, "")
	if value == "" {
		return nil
	}

	return map[string]any{name: value}
}

func acknowledge(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	req := betterstack.Incidents.Acknowledge(id, optionalBody(p, "acknowledged_by"))

	return execution.Transition(ctx, client, req, id, string(OperationAcknowledge))
}

func resolve(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	req := betterstack.Incidents.Resolve(id, optionalBody(p, "resolved_by"))

	return execution.Transition(ctx, client, req, id, string(OperationResolve))
}

func escalate(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	escalationType, err := p.String("escalation_type")
	if err != nil {
		return nil, err
	}

	fields, err := p.Object("escalateFields")
	if err != nil {
		return nil, err
	}

	nonZero := make(map[string]any, len(fields))

	for key, value := range fields {
		if !execution.IsZero(value) {
			nonZero[key] = value
		}
	}

	body, err := execution.BuildBody(nonZero, escalateRules)
	if err != nil {
		return nil, err
	}

	body = execution.MergeBody(map[string]any{"escalation_type": escalationType}, body)

	return execution.Transition(ctx, client, betterstack.Incidents.Escalate(id, body), id, string(OperationEscalate))
}

func getTimeline(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	id, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.Incidents.Timeline(id))
}
