package trigger

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// TriggerNodeFactory creates Better Stack trigger nodes.
type TriggerNodeFactory struct{}

func NewTriggerNodeFactory() *TriggerNodeFactory {
	return &TriggerNodeFactory{}
}

func (f *TriggerNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewTriggerNode(id, config)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *TriggerNodeFactory) ID() string {
	return models.NodeTypeTrigger
}

func (f *TriggerNodeFactory) Name() string {
	return "Better Stack Trigger"
}

func (f *TriggerNodeFactory) Description() string {
	return "Receive webhooks from Better Stack for incidents and monitor events"
}

// Schema returns the JSON schema for trigger node configuration.
func (f *TriggerNodeFactory) Schema() map[string]any {
	events := make([]string, 0, len(models.EventTypes()))
	for _, event := range models.EventTypes() {
		events = append(events, string(event))
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"event": map[string]any{
				"type":        "string",
				"description": "Event to trigger on. Configure the webhook URL under Integrations > Custom Webhook in Better Stack",
				"enum":        events,
				"default":     string(models.EventAll),
			},
		},
		"examples": []map[string]any{
			{"event": "*"},
			{"event": "incident.created"},
		},
	}
}
