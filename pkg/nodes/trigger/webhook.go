// Package trigger provides the Better Stack trigger node, which turns
// inbound webhooks into classified event records.
package trigger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// receivedAtLayout matches JavaScript's Date.toISOString output.
const receivedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// TriggerNode classifies webhook payloads and drops events the configured
// filter does not accept.
type TriggerNode struct {
	id    string
	event models.EventType
	now   func() time.Time
}

// NewTriggerNode creates a trigger node. The "event" config selects the event
// type to accept; "*" or no value accepts every event.
func NewTriggerNode(id string, config map[string]any) (*TriggerNode, error) {
	event := models.EventAll

	if raw, ok := config["event"]; ok && raw != nil {
		s, isString := raw.(string)
		if !isString || !models.EventType(s).IsFilter() {
			return nil, &betterstack.MalformedInputError{Field: "event", Value: fmt.Sprint(raw)}
		}

		event = models.EventType(s)
	}

	return &TriggerNode{id: id, event: event, now: time.Now}, nil
}

func (n *TriggerNode) ID() string {
	return n.id
}

func (n *TriggerNode) Type() string {
	return models.NodeTypeTrigger
}

// Event returns the accepted event type.
func (n *TriggerNode) Event() models.EventType {
	return n.event
}

// HandleWebhook classifies one webhook. The second result is false when the
// event is filtered out and no workflow data should be emitted.
func (n *TriggerNode) HandleWebhook(ctx context.Context, req protocol.WebhookRequest) (models.Item, bool) {
	payload := Payload(req.Body)
	event := Classify(payload)

	if !n.event.Matches(event) {
		return models.Item{}, false
	}

	receivedAt := req.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = n.now()
	}

	record := map[string]any{
		"event":      string(event),
		"body":       map[string]any(payload),
		"headers":    headerRecord(req.Headers),
		"query":      queryRecord(req.Query),
		"receivedAt": receivedAt.UTC().Format(receivedAtLayout),
	}

	if data, ok := payload.data(); ok {
		if attributes, ok := data["attributes"]; ok && truthy(attributes) {
			record["attributes"] = attributes
		}

		if id, ok := data["id"]; ok && truthy(id) {
			record["resourceId"] = id
		}

		if resourceType, ok := data["type"]; ok && truthy(resourceType) {
			record["resourceType"] = resourceType
		}
	}

	return models.Item{JSON: record}, true
}

// Execute treats every input item as a webhook body. Items whose event does
// not pass the filter produce no output.
func (n *TriggerNode) Execute(ctx context.Context, host protocol.ExecutionHost) ([]models.Item, error) {
	items := host.InputItems()
	output := make([]models.Item, 0, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, ok := n.HandleWebhook(ctx, protocol.WebhookRequest{Body: item.JSON})
		if !ok {
			host.Logger().DebugContext(ctx, "Webhook event filtered out", "item_index", i, "filter", n.event)

			continue
		}

		result.PairedItem = &models.PairedItem{Item: i}
		output = append(output, result)
	}

	return output, nil
}

func headerRecord(headers http.Header) map[string]any {
	record := make(map[string]any, len(headers))

	for name, values := range headers {
		record[strings.ToLower(name)] = strings.Join(values, ", ")
	}

	return record
}

func queryRecord(query map[string]string) map[string]any {
	record := make(map[string]any, len(query))

	for key, value := range query {
		record[key] = value
	}

	return record
}
