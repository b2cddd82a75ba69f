package execution

import (
	"github.com/dukex/operion-betterstack/pkg/betterstack"
)

// FieldRule converts one collection field into its request body value. A
// false result drops the field.
type FieldRule func(key string, value any) (any, bool, error)

// BuildBody copies every non-empty field of fields into a request body,
// applying the rule registered for the key, if any.
func BuildBody(fields map[string]any, rules map[string]FieldRule) (map[string]any, error) {
	body := make(map[string]any, len(fields))

	for key, value := range fields {
		if IsEmpty(value) {
			continue
		}

		rule, ok := rules[key]
		if !ok {
			body[key] = value

			continue
		}

		converted, keep, err := rule(key, value)
		if err != nil {
			return nil, err
		}

		if keep {
			body[key] = converted
		}
	}

	return body, nil
}

// IsEmpty reports nil and the empty string.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}

	s, ok := value.(string)

	return ok && s == ""
}

// IsZero reports nil, the empty string and numeric zero.
func IsZero(value any) bool {
	if IsEmpty(value) {
		return true
	}

	switch v := value.(type) {
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	}

	return false
}

// LocatorRule resolves a locator field to its bare id.
func LocatorRule(_ string, value any) (any, bool, error) {
	id, ok := LocatorValue(value)

	return id, ok, nil
}

// IntListRule parses comma-separated integer strings. Lists pass through.
func IntListRule(key string, value any) (any, bool, error) {
	s, ok := value.(string)
	if !ok {
		return value, true, nil
	}

	codes, err := ParseIntList(key, s)
	if err != nil {
		return nil, false, err
	}

	return codes, true, nil
}

// JSONRule parses JSON string fields. "{}" drops the field.
func JSONRule(key string, value any) (any, bool, error) {
	return ParseJSONParam(key, value)
}

// CommaListRule splits comma-separated strings into a trimmed list.
func CommaListRule(_ string, value any) (any, bool, error) {
	s, ok := value.(string)
	if !ok {
		return value, true, nil
	}

	return SplitCommaList(s), true, nil
}

// CappedCollectionRule takes the named list out of a fixed collection
// ({"links": [...]}) and keeps at most limit entries.
func CappedCollectionRule(name string, limit int) FieldRule {
	return func(key string, value any) (any, bool, error) {
		collection, ok := value.(map[string]any)
		if !ok {
			if list, isList := value.([]any); isList {
				return betterstack.Limit(list, limit), true, nil
			}

			return nil, false, &betterstack.MalformedInputError{Field: key, Value: "not a collection"}
		}

		list, ok := collection[name].([]any)
		if !ok {
			return nil, false, nil
		}

		return betterstack.Limit(list, limit), true, nil
	}
}

// MergeBody returns base overlaid with fields. Collection fields win over the
// required parameters they repeat.
func MergeBody(base, fields map[string]any) map[string]any {
	body := make(map[string]any, len(base)+len(fields))

	for key, value := range base {
		body[key] = value
	}

	for key, value := range fields {
		body[key] = value
	}

	return body
}
