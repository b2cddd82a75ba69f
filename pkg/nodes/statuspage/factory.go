package statuspage

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

type StatusPageNodeFactory struct {
	opts []betterstack.Option
}

func NewStatusPageNodeFactory(opts ...betterstack.Option) *StatusPageNodeFactory {
	return &StatusPageNodeFactory{opts: opts}
}

func (f *StatusPageNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewStatusPageNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *StatusPageNodeFactory) ID() string {
	return models.NodeTypeStatusPage
}

func (f *StatusPageNodeFactory) Name() string {
	return "Better Stack Status Page"
}

func (f *StatusPageNodeFactory) Description() string {
	return "Manage Better Stack status pages and the monitors and heartbeats they display"
}

func (f *StatusPageNodeFactory) Operations() []string {
	return dispatcher.Names()
}

func (f *StatusPageNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation":           execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"statusPageId":        execution.LocatorSchema("Status page to operate on"),
				"resourceId":          execution.LocatorSchema("Resource of the status page"),
				"resourceIdForCreate": execution.LocatorSchema("Monitor or heartbeat to add to the status page"),
				"resourceType": map[string]any{
					"type":        "string",
					"description": "Kind of resource to add",
					"enum":        []string{"Monitor", "Heartbeat", "WebhookIntegration", "EmailIntegration", "IncomingWebhook", "ResourceGroup"},
				},
				"companyName": map[string]any{"type": "string", "description": "Company name shown on the page"},
				"subdomain": map[string]any{
					"type":        "string",
					"description": "Subdomain under betteruptime.com",
					"pattern":     "^[a-z0-9-]+$",
				},
				"timezone":         map[string]any{"type": "string", "description": "Timezone of the page", "examples": []string{"UTC", "Europe/Prague"}},
				"additionalFields": execution.ObjectSchema("Extra status page attributes; ip_allowlist is comma separated and navigation_links holds up to 4 links"),
				"updateFields":     execution.ObjectSchema("Status page attributes to change"),
				"resourceFields":   execution.ObjectSchema("Resource attributes such as public_name, explanation and widget_type"),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{"operation": "create", "companyName": "Example", "subdomain": "example", "timezone": "UTC"},
			{"operation": "createResource", "statusPageId": "1", "resourceType": "Monitor", "resourceIdForCreate": "123"},
		},
	}
}
