package execution

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseIntList parses a comma-separated list of integers such as "200, 201".
func ParseIntList(field, s string) ([]int, error) {
	parts := strings.Split(s, ",")
	codes := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)

		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, &betterstack.MalformedInputError{Field: field, Value: s, Err: err}
		}

		codes = append(codes, code)
	}

	return codes, nil
}

// SplitCommaList splits s on commas, trims every entry and drops empty ones.
func SplitCommaList(s string) []string {
	entries := []string{}

	for _, entry := range strings.Split(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}

	return entries
}

// ParseJSONParam decodes a JSON-typed parameter. Strings are parsed; "" and
// "{}" are absent. Already decoded values pass through.
func ParseJSONParam(field string, v any) (any, bool, error) {
	switch value := v.(type) {
	case nil:
		return nil, false, nil
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || trimmed == "{}" {
			return nil, false, nil
		}

		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return nil, false, &betterstack.MalformedInputError{Field: field, Value: value, Err: err}
		}

		return decoded, true, nil
	case map[string]any:
		if len(value) == 0 {
			return nil, false, nil
		}

		return value, true, nil
	default:
		return value, true, nil
	}
}

// ToDateString renders v as a YYYY-MM-DD date in UTC. Strings are parsed,
// numbers are unix milliseconds. Values that are not dates are absent.
func ToDateString(v any) (string, bool) {
	var t time.Time

	switch value := v.(type) {
	case nil:
		return "", false
	case time.Time:
		t = value
	case *time.Time:
		if value == nil {
			return "", false
		}

		t = *value
	case float64:
		t = time.UnixMilli(int64(value))
	case int:
		t = time.UnixMilli(int64(value))
	case int64:
		t = time.UnixMilli(value)
	case string:
		if value == "" {
			return "", false
		}

		parsed, ok := parseDate(value)
		if !ok {
			return "", false
		}

		t = parsed
	default:
		return "", false
	}

	return t.UTC().Format(time.DateOnly), true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ExpandMetadataFilter turns {key: [v1, v2]} into repeated metadata[key][]
// query entries. v may be a JSON string or a decoded map.
func ExpandMetadataFilter(field string, v any) (betterstack.Query, error) {
	decoded, ok, err := ParseJSONParam(field, v)
	if err != nil || !ok {
		return betterstack.Query{}, err
	}

	filter, isMap := decoded.(map[string]any)
	if !isMap {
		return nil, &betterstack.MalformedInputError{Field: field, Value: fmt.Sprint(v)}
	}

	query := betterstack.Query{}

	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		list, isList := filter[key].([]any)
		if !isList {
			continue
		}

		values := make([]string, 0, len(list))

		for _, item := range list {
			if s, err := stringValue(field, item); err == nil {
				values = append(values, s)
			}
		}

		if len(values) > 0 {
			query["metadata["+key+"][]"] = values
		}
	}

	return query, nil
}

// DateRangeQuery reads a {from, to} collection parameter into from/to date
// query entries. Missing or invalid bounds are left out.
func DateRangeQuery(p Params, name string) (betterstack.Query, error) {
	dateRange, err := p.Object(name)
	if err != nil {
		return nil, err
	}

	query := betterstack.Query{}

	for _, bound := range []string{"from", "to"} {
		if date, ok := ToDateString(dateRange[bound]); ok {
			query[bound] = date
		}
	}

	return query, nil
}
