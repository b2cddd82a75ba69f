package betterstack

// Flatten turns a resource into a flat record holding id, type and every
// attribute. Attributes named id or type override the envelope values.
func Flatten(resource Resource) map[string]any {
	record := make(map[string]any, len(resource.Attributes)+2)
	record["id"] = resource.ID.String()
	record["type"] = resource.Type

	for key, value := range resource.Attributes {
		record[key] = value
	}

	return record
}

// FlattenAll flattens every resource, preserving order.
func FlattenAll(resources []Resource) []map[string]any {
	records := make([]map[string]any, 0, len(resources))

	for _, resource := range resources {
		records = append(records, Flatten(resource))
	}

	return records
}

// Normalize flattens the primary data of an envelope.
func Normalize(envelope *Envelope) []map[string]any {
	if envelope == nil {
		return []map[string]any{}
	}

	return FlattenAll(envelope.Data)
}

// NormalizeSingle flattens the first resource of an envelope. It returns nil
// when the envelope holds no data.
func NormalizeSingle(envelope *Envelope) map[string]any {
	if envelope == nil || len(envelope.Data) == 0 {
		return nil
	}

	return Flatten(envelope.Data[0])
}

// Limit returns the first n records. A non-positive n returns records unchanged.
func Limit[T any](records []T, n int) []T {
	if n <= 0 || n >= len(records) {
		return records
	}

	return records[:n]
}
