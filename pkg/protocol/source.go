package protocol

import (
	"context"
	"net/http"
	"time"

	"github.com/dukex/operion-betterstack/pkg/models"
)

// SourceEventCallback is called when a source emits an event. The callback
// publishes the event to the event bus.
type SourceEventCallback func(ctx context.Context, sourceID, providerID, eventType string, eventData map[string]any) error

// WebhookRequest is an inbound webhook delivery.
type WebhookRequest struct {
	Body       map[string]any
	Headers    http.Header
	Query      map[string]string
	ReceivedAt time.Time
}

// WebhookNode is implemented by trigger nodes fed by inbound webhooks. The
// boolean result is false when the delivery is filtered out.
type WebhookNode interface {
	Node
	HandleWebhook(ctx context.Context, req WebhookRequest) (models.Item, bool)
}
