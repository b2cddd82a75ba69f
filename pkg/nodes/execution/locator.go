package execution

import (
	"encoding/json"
	"strconv"
)

// Locator modes.
const (
	LocatorModeList = "list"
	LocatorModeID   = "id"
	LocatorModeURL  = "url"
)

// Locator identifies a resource either by a bare id or by a {mode, value}
// pair. Only the value reaches the backend.
type Locator struct {
	Mode  string `json:"mode"`
	Value string `json:"value"`
}

// ParseLocator accepts a bare id (string or number) or a {mode, value} map.
func ParseLocator(v any) (Locator, bool) {
	switch value := v.(type) {
	case nil:
		return Locator{}, false
	case string:
		return Locator{Mode: LocatorModeID, Value: value}, true
	case float64:
		return Locator{Mode: LocatorModeID, Value: strconv.FormatFloat(value, 'f', -1, 64)}, true
	case int:
		return Locator{Mode: LocatorModeID, Value: strconv.Itoa(value)}, true
	case json.Number:
		return Locator{Mode: LocatorModeID, Value: value.String()}, true
	case Locator:
		return value, true
	case *Locator:
		if value == nil {
			return Locator{}, false
		}

		return *value, true
	case map[string]any:
		raw, ok := value["value"]
		if !ok {
			return Locator{}, false
		}

		inner, ok := ParseLocator(raw)
		if !ok {
			return Locator{}, false
		}

		mode, _ := value["mode"].(string)

		return Locator{Mode: mode, Value: inner.Value}, true
	default:
		return Locator{}, false
	}
}

// LocatorValue resolves v to a bare id. Empty ids are reported as absent.
func LocatorValue(v any) (string, bool) {
	locator, ok := ParseLocator(v)
	if !ok || locator.Value == "" {
		return "", false
	}

	return locator.Value, true
}
