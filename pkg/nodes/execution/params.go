// Package execution holds the plumbing shared by every Better Stack node:
// parameter access, value coercion, the per-item loop and list pagination.
package execution

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// ErrMissingParameter is returned when a required parameter is absent.
var ErrMissingParameter = errors.New("missing required parameter")

// Params resolves parameters for one input item.
type Params struct {
	host  protocol.ExecutionHost
	index int
}

func NewParams(host protocol.ExecutionHost, itemIndex int) Params {
	return Params{host: host, index: itemIndex}
}

// Index returns the input item index.
func (p Params) Index() int {
	return p.index
}

// Raw returns the unconverted parameter value.
func (p Params) Raw(name string) (any, bool) {
	value, ok := p.host.Parameter(name, p.index)
	if !ok || value == nil {
		return nil, false
	}

	return value, true
}

// String returns a required string parameter. Numbers are formatted.
func (p Params) String(name string) (string, error) {
	value, ok := p.Raw(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}

	return stringValue(name, value)
}

// StringOr returns a string parameter or def when it is absent or empty.
func (p Params) StringOr(name, def string) string {
	value, ok := p.Raw(name)
	if !ok {
		return def
	}

	s, err := stringValue(name, value)
	if err != nil || s == "" {
		return def
	}

	return s
}

// Int returns an integer parameter or def when it is absent.
func (p Params) Int(name string, def int) (int, error) {
	value, ok := p.Raw(name)
	if !ok {
		return def, nil
	}

	return intValue(name, value)
}

// RequiredInt returns a required integer parameter.
func (p Params) RequiredInt(name string) (int, error) {
	value, ok := p.Raw(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}

	return intValue(name, value)
}

// Bool returns a boolean parameter or def when it is absent.
func (p Params) Bool(name string, def bool) (bool, error) {
	value, ok := p.Raw(name)
	if !ok {
		return def, nil
	}

	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, &betterstack.MalformedInputError{Field: name, Value: v, Err: err}
		}

		return b, nil
	default:
		return false, &betterstack.MalformedInputError{Field: name, Value: fmt.Sprint(v)}
	}
}

// Object returns a collection parameter. Absent collections are empty.
func (p Params) Object(name string) (map[string]any, error) {
	value, ok := p.Raw(name)
	if !ok {
		return map[string]any{}, nil
	}

	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]any{}, nil
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, &betterstack.MalformedInputError{Field: name, Value: v, Err: err}
		}

		return obj, nil
	default:
		return nil, &betterstack.MalformedInputError{Field: name, Value: fmt.Sprint(v)}
	}
}

// Locator returns the bare identifier held by a required locator parameter.
func (p Params) Locator(name string) (string, error) {
	value, ok := p.Raw(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}

	id, ok := LocatorValue(value)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}

	return id, nil
}

func stringValue(name string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", &betterstack.MalformedInputError{Field: name, Value: fmt.Sprint(v)}
	}
}

func intValue(name string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, &betterstack.MalformedInputError{Field: name, Value: strconv.FormatFloat(v, 'f', -1, 64)}
		}

		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, &betterstack.MalformedInputError{Field: name, Value: v.String(), Err: err}
		}

		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, &betterstack.MalformedInputError{Field: name, Value: v, Err: err}
		}

		return n, nil
	default:
		return 0, &betterstack.MalformedInputError{Field: name, Value: fmt.Sprint(v)}
	}
}
