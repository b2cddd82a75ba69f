package execution

// OperationSchema describes the "operation" property of a node.
func OperationSchema(operations []string, def string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Operation to run for each input item",
		"enum":        operations,
		"default":     def,
	}
}

// LocatorSchema describes a resource locator: a bare id or a {mode, value} pair.
func LocatorSchema(description string) map[string]any {
	return map[string]any{
		"description": description,
		"oneOf": []any{
			map[string]any{"type": []string{"string", "number"}},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"mode":  map[string]any{"type": "string", "enum": []string{LocatorModeList, LocatorModeID, LocatorModeURL}},
					"value": map[string]any{"type": []string{"string", "number"}},
				},
				"required": []string{"value"},
			},
		},
		"examples": []any{"123456", map[string]any{"mode": LocatorModeList, "value": "123456"}},
	}
}

// ListSchemaProperties describes the returnAll and limit properties.
func ListSchemaProperties() map[string]any {
	return map[string]any{
		"returnAll": map[string]any{
			"type":        "boolean",
			"description": "Whether to follow every page instead of returning up to limit records",
			"default":     false,
		},
		"limit": map[string]any{
			"type":        "integer",
			"description": "Maximum number of records to return",
			"default":     DefaultLimit,
			"minimum":     1,
		},
	}
}

// DateRangeSchema describes a {from, to} date range.
func DateRangeSchema() map[string]any {
	return map[string]any{
		"type":        "object",
		"description": "Date range, sent as YYYY-MM-DD",
		"properties": map[string]any{
			"from": map[string]any{"type": []string{"string", "number"}},
			"to":   map[string]any{"type": []string{"string", "number"}},
		},
	}
}

// ObjectSchema describes a free-form collection of fields.
func ObjectSchema(description string) map[string]any {
	return map[string]any{
		"type":        []string{"object", "string"},
		"description": description,
	}
}

// Properties merges property sets into one map.
func Properties(sets ...map[string]any) map[string]any {
	merged := make(map[string]any)

	for _, set := range sets {
		for key, value := range set {
			merged[key] = value
		}
	}

	return merged
}
