package trigger

import (
	"strings"

	"github.com/dukex/operion-betterstack/pkg/models"
)

// Payload is a decoded webhook body.
type Payload map[string]any

func (p Payload) object(key string) (map[string]any, bool) {
	value, ok := p[key].(map[string]any)

	return value, ok
}

// hasData reports whether the payload is JSON:API shaped.
func (p Payload) hasData() bool {
	return truthy(p["data"])
}

// data returns the JSON:API data object, if the payload has one.
func (p Payload) data() (map[string]any, bool) {
	return p.object("data")
}

func (p Payload) resourceType() string {
	data, ok := p.data()
	if !ok {
		return ""
	}

	resourceType, _ := data["type"].(string)

	return resourceType
}

func (p Payload) attributes() map[string]any {
	data, ok := p.data()
	if !ok {
		return nil
	}

	attributes, _ := data["attributes"].(map[string]any)

	return attributes
}

// Rule labels payloads its predicate matches.
type Rule struct {
	Name    string
	Matches func(Payload) bool
	Event   models.EventType
}

// Rules is the ordered classification chain. The first matching rule wins,
// so resolved beats acknowledged beats created, and an explicit monitor
// status beats the alert_type heuristic.
var Rules = []Rule{
	{"legacy incident resolved", legacy("incident", set("resolved_at")), models.EventIncidentResolved},
	{"legacy incident acknowledged", legacy("incident", set("acknowledged_at")), models.EventIncidentAcknowledged},
	{"legacy incident", legacy("incident", always), models.EventIncidentCreated},
	{"legacy monitor down", legacy("monitor", status("down")), models.EventMonitorDown},
	{"legacy monitor up", legacy("monitor", status("up")), models.EventMonitorUp},
	{"incident resolved", resource("incident", set("resolved_at")), models.EventIncidentResolved},
	{"incident acknowledged", resource("incident", set("acknowledged_at")), models.EventIncidentAcknowledged},
	{"incident", resource("incident", always), models.EventIncidentCreated},
	{"monitor down", resource("monitor", status("down")), models.EventMonitorDown},
	{"monitor up", resource("monitor", status("up")), models.EventMonitorUp},
	{"alert type down", alertType("down", "Down"), models.EventMonitorDown},
	{"alert type up", alertType("up", "Up"), models.EventMonitorUp},
	{"alert type incident", alertType("incident", "Incident"), models.EventIncidentCreated},
}

// Classify returns the event type of a webhook payload.
func Classify(payload Payload) models.EventType {
	for _, rule := range Rules {
		if rule.Matches(payload) {
			return rule.Event
		}
	}

	return models.EventUnknown
}

func always(map[string]any) bool {
	return true
}

func set(key string) func(map[string]any) bool {
	return func(fields map[string]any) bool {
		return truthy(fields[key])
	}
}

func status(want string) func(map[string]any) bool {
	return func(fields map[string]any) bool {
		got, _ := fields["status"].(string)

		return got == want
	}
}

// legacy matches flat payloads without a data object that carry key.
func legacy(key string, match func(map[string]any) bool) func(Payload) bool {
	return func(p Payload) bool {
		if p.hasData() || !truthy(p[key]) {
			return false
		}

		fields, _ := p.object(key)

		return match(fields)
	}
}

// resource matches JSON:API payloads whose data has the given type.
func resource(resourceType string, match func(map[string]any) bool) func(Payload) bool {
	return func(p Payload) bool {
		if !p.hasData() || p.resourceType() != resourceType {
			return false
		}

		return match(p.attributes())
	}
}

// alertType matches JSON:API payloads whose alert_type contains any of
// substrings.
func alertType(substrings ...string) func(Payload) bool {
	return func(p Payload) bool {
		if !p.hasData() {
			return false
		}

		value, _ := p["alert_type"].(string)
		if value == "" {
			return false
		}

		for _, s := range substrings {
			if strings.Contains(value, s) {
				return true
			}
		}

		return false
	}
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	case int:
		return value != 0
	default:
		return true
	}
}
