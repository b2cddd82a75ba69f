// Package models holds the webhook source model.
package models

import (
	"errors"
	"time"

	bsmodels "github.com/dukex/operion-betterstack/pkg/models"
	"github.com/google/uuid"
)

// ErrInvalidWebhookSource is returned when webhook source validation fails.
var ErrInvalidWebhookSource = errors.New("invalid webhook source")

// WebhookSource maps the external UUID that appears in a Better Stack webhook
// URL to the internal source ID events are published under.
type WebhookSource struct {
	ID string `json:"id" validate:"required"`

	// ExternalID is the UUID used in the webhook URL.
	ExternalID uuid.UUID `json:"external_id" validate:"required"`

	// Event is the trigger filter. Deliveries whose classified event does
	// not match are acknowledged and dropped.
	Event bsmodels.EventType `json:"event"`

	// JSONSchema optionally validates the delivery body.
	JSONSchema map[string]any `json:"json_schema,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Active    bool      `json:"active"`
}

// NewWebhookSource creates an active source with a random external UUID.
// The configuration may carry "event" and "json_schema".
func NewWebhookSource(sourceID string, configuration map[string]any) (*WebhookSource, error) {
	if sourceID == "" {
		return nil, ErrInvalidWebhookSource
	}

	now := time.Now().UTC()

	source := &WebhookSource{
		ID:         sourceID,
		ExternalID: uuid.New(),
		Event:      bsmodels.EventAll,
		CreatedAt:  now,
		UpdatedAt:  now,
		Active:     true,
	}

	source.applyConfiguration(configuration)

	return source, nil
}

// Validate checks the identifiers and the event filter.
func (ws *WebhookSource) Validate() error {
	if ws.ID == "" || ws.ExternalID == uuid.Nil {
		return ErrInvalidWebhookSource
	}

	if ws.Event != "" && !ws.Event.IsFilter() {
		return ErrInvalidWebhookSource
	}

	return nil
}

// GetWebhookURL returns the webhook URL path for this source.
func (ws *WebhookSource) GetWebhookURL() string {
	return "/webhook/" + ws.ExternalID.String()
}

// HasJSONSchema reports whether deliveries are validated against a schema.
func (ws *WebhookSource) HasJSONSchema() bool {
	return len(ws.JSONSchema) > 0
}

// UpdateConfiguration replaces the event filter and schema.
func (ws *WebhookSource) UpdateConfiguration(configuration map[string]any) {
	ws.Event = bsmodels.EventAll
	ws.JSONSchema = nil
	ws.applyConfiguration(configuration)
	ws.UpdatedAt = time.Now().UTC()
}

func (ws *WebhookSource) applyConfiguration(configuration map[string]any) {
	if event, ok := configuration["event"].(string); ok && event != "" {
		ws.Event = bsmodels.EventType(event)
	}

	if schema, ok := configuration["json_schema"].(map[string]any); ok {
		ws.JSONSchema = schema
	}
}

// TriggerConfig is the trigger node configuration for this source.
func (ws *WebhookSource) TriggerConfig() map[string]any {
	return map[string]any{"event": string(ws.Event)}
}
