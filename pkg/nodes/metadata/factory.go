package metadata

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

type MetadataNodeFactory struct {
	opts []betterstack.Option
}

func NewMetadataNodeFactory(opts ...betterstack.Option) *MetadataNodeFactory {
	return &MetadataNodeFactory{opts: opts}
}

func (f *MetadataNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewMetadataNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *MetadataNodeFactory) ID() string {
	return models.NodeTypeMetadata
}

func (f *MetadataNodeFactory) Name() string {
	return "Better Stack Metadata"
}

func (f *MetadataNodeFactory) Description() string {
	return "List and upsert metadata attached to Better Stack monitors, heartbeats, incidents and other owners"
}

func (f *MetadataNodeFactory) Operations() []string {
	return dispatcher.Names()
}

func (f *MetadataNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation": execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"ownerType": map[string]any{
					"type":        "string",
					"description": "Kind of the record owning the metadata",
					"enum":        []string{"Monitor", "Heartbeat", "Incident", "WebhookIntegration", "EmailIntegration", "IncomingWebhook", "CallRouting"},
				},
				"ownerId":     map[string]any{"type": []string{"string", "number"}, "description": "ID of the owner"},
				"metadataKey": map[string]any{"type": "string", "description": "Metadata key"},
				"metadataValues": map[string]any{
					"type":        "object",
					"description": "Values stored under the key",
					"properties": map[string]any{
						"valuesUi": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"type": map[string]any{
										"type": "string",
										"enum": []string{"String", "User", "Team", "Policy", "Schedule", "SlackIntegration", "LinearIntegration", "JiraIntegration", "MicrosoftTeamsWebhook", "ZapierWebhook", "NativeWebhook", "PagerDutyWebhook"},
									},
									"value": map[string]any{"type": []string{"string", "number"}},
								},
								"required": []string{"type", "value"},
							},
						},
					},
				},
				"filters": execution.ObjectSchema("List filters: owner_type and owner_id"),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{
				"operation":   "upsert",
				"ownerType":   "Monitor",
				"ownerId":     "123",
				"metadataKey": "owner",
				"metadataValues": map[string]any{"valuesUi": []map[string]any{
					{"type": "User", "value": "oncall@example.com"},
					{"type": "String", "value": "payments"},
				}},
			},
		},
	}
}
