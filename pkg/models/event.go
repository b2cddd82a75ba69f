package models

import "slices"

// EventType is the classification of an inbound Better Stack webhook.
type EventType string

const (
	EventIncidentCreated      EventType = "incident.created"
	EventIncidentAcknowledged EventType = "incident.acknowledged"
	EventIncidentResolved     EventType = "incident.resolved"
	EventMonitorUp            EventType = "monitor.up"
	EventMonitorDown          EventType = "monitor.down"
	EventUnknown              EventType = "unknown"

	// EventAll matches every event type in trigger filters.
	EventAll EventType = "*"
)

// EventTypes lists the event types a trigger can filter on.
func EventTypes() []EventType {
	return []EventType{
		EventAll,
		EventIncidentAcknowledged,
		EventIncidentCreated,
		EventIncidentResolved,
		EventMonitorDown,
		EventMonitorUp,
	}
}

// Matches reports whether an event of type event passes the filter.
func (filter EventType) Matches(event EventType) bool {
	return filter == EventAll || filter == "" || filter == event
}

// IsFilter reports whether e can be used as a trigger filter.
func (e EventType) IsFilter() bool {
	return slices.Contains(EventTypes(), e)
}
