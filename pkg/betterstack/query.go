package betterstack

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MaxPerPage is the largest page size the backend accepts.
	MaxPerPage = 250

	// DefaultPerPage is the page size used when none is given.
	DefaultPerPage = 50
)

// CleanQueryParams drops nil and empty-string values. false and 0 are kept.
func CleanQueryParams(params map[string]any) Query {
	cleaned := make(Query, len(params))

	for key, value := range params {
		if value == nil {
			continue
		}

		if s, ok := value.(string); ok && s == "" {
			continue
		}

		cleaned[key] = value
	}

	return cleaned
}

// PaginationQuery builds the per_page/page pair, capping per_page at MaxPerPage.
func PaginationQuery(perPage, page int) Query {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	if page <= 0 {
		page = 1
	}

	return Query{
		"per_page": min(perPage, MaxPerPage),
		"page":     page,
	}
}

// ToSnakeCase converts camelCase keys to snake_case.
func ToSnakeCase(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// ConvertKeysToSnakeCase returns a copy of obj with every top-level key in
// snake_case.
func ConvertKeysToSnakeCase(obj map[string]any) map[string]any {
	result := make(map[string]any, len(obj))

	for key, value := range obj {
		result[ToSnakeCase(key)] = value
	}

	return result
}

func formatScalar(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
