// Package events defines the events Better Stack sources publish to the event bus.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidEventData is returned when source event data cannot be parsed or is invalid.
var ErrInvalidEventData = errors.New("invalid event data")

// SourceEventsTopic is the topic every source event is published to.
const SourceEventsTopic = "betterstack.source-events"

// Provider IDs.
const (
	ProviderWebhook = "betterstack-webhook"
	ProviderPoller  = "betterstack-poller"
)

// Event types emitted by the poller. Webhook events use the classified
// webhook event name as their type.
const (
	PollCompletedEvent = "poll.completed"
	PollFailedEvent    = "poll.failed"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SourceEvent is an event emitted by a webhook source or a poll job.
type SourceEvent struct {
	// SourceID identifies the webhook source or poll job that emitted the event.
	SourceID string `json:"source_id" validate:"required"`

	// ProviderID is ProviderWebhook or ProviderPoller.
	ProviderID string `json:"provider_id" validate:"required,oneof=betterstack-webhook betterstack-poller"`

	// EventType is the classified webhook event (incident.created, monitor.down,
	// ...) or a poll event.
	EventType string `json:"event_type" validate:"required"`

	EventData map[string]any `json:"event_data"`

	EmittedAt time.Time `json:"emitted_at"`
}

// NewSourceEvent creates a new SourceEvent with the provided parameters.
func NewSourceEvent(sourceID, providerID, eventType string, eventData map[string]any) *SourceEvent {
	if eventData == nil {
		eventData = make(map[string]any)
	}

	return &SourceEvent{
		SourceID:   sourceID,
		ProviderID: providerID,
		EventType:  eventType,
		EventData:  eventData,
		EmittedAt:  time.Now().UTC(),
	}
}

// GetEventDataString returns a string value from the event data.
func (se *SourceEvent) GetEventDataString(key string) (string, bool) {
	value, exists := se.EventData[key]
	if !exists {
		return "", false
	}

	strValue, ok := value.(string)

	return strValue, ok
}

// GetEventDataMap returns a nested map from the event data.
func (se *SourceEvent) GetEventDataMap(key string) (map[string]any, bool) {
	value, exists := se.EventData[key]
	if !exists {
		return nil, false
	}

	mapValue, ok := value.(map[string]any)

	return mapValue, ok
}

// Validate checks the required fields.
func (se *SourceEvent) Validate() error {
	if err := validate.Struct(se); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEventData, err)
	}

	return nil
}
