package incident

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// IncidentNodeFactory creates incident nodes.
type IncidentNodeFactory struct {
	opts []betterstack.Option
}

func NewIncidentNodeFactory(opts ...betterstack.Option) *IncidentNodeFactory {
	return &IncidentNodeFactory{opts: opts}
}

func (f *IncidentNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewIncidentNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *IncidentNodeFactory) ID() string {
	return models.NodeTypeIncident
}

func (f *IncidentNodeFactory) Name() string {
	return "Better Stack Incident"
}

func (f *IncidentNodeFactory) Description() string {
	return "Create, acknowledge, resolve and escalate Better Stack incidents and manage their comments"
}

func (f *IncidentNodeFactory) Operations() []string {
	return dispatcher.Names()
}

// Schema returns the JSON schema for incident node configuration.
func (f *IncidentNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation":  execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"incidentId": execution.LocatorSchema("Incident to operate on"),
				"commentId":  execution.LocatorSchema("Comment of the incident"),
				"content": map[string]any{
					"type":        "string",
					"description": "Comment text, Markdown supported",
				},
				"requester_email": map[string]any{
					"type":        "string",
					"description": "Email of the user reporting the incident",
					"format":      "email",
				},
				"summary": map[string]any{
					"type":        "string",
					"description": "Short description of the incident",
				},
				"createFields": execution.ObjectSchema("Extra incident attributes such as name, description, call, sms, email, push, team_wait and policy_id"),
				"acknowledged_by": map[string]any{
					"type":        "string",
					"description": "Who acknowledged the incident",
				},
				"resolved_by": map[string]any{
					"type":        "string",
					"description": "Who resolved the incident",
				},
				"escalation_type": map[string]any{
					"type":        "string",
					"description": "Who to escalate the incident to",
					"enum":        []string{"User", "Team", "Schedule", "Policy", "Organization"},
				},
				"escalateFields": execution.ObjectSchema("Escalation target and channels: user_id, team_id, schedule_id, policy_id, metadata, call, sms, email, push"),
				"filters":        execution.ObjectSchema("List filters: from, to, monitor_id, heartbeat_id, resolved, acknowledged, metadata"),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{"operation": "create", "requester_email": "oncall@example.com", "summary": "Checkout is failing"},
			{"operation": "acknowledge", "incidentId": "{{ $json.id }}", "acknowledged_by": "oncall@example.com"},
			{"operation": "getMany", "filters": map[string]any{"resolved": false, "metadata": `{"env":["prod"]}`}},
		},
	}
}
