// Package metadata provides the Better Stack metadata node.
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

type Operation string

const (
	OperationGetMany Operation = "getMany"
	OperationUpsert  Operation = "upsert"
)

// Metadata value types with special handling. Every other type references
// an item by id.
const (
	ValueTypeString = "String"
	ValueTypeUser   = "User"
)

var dispatcher = execution.Dispatcher[Operation]{
	Resource:   "metadata",
	Operations: []Operation{OperationGetMany, OperationUpsert},
	Handlers: map[Operation]execution.Handler{
		OperationGetMany: getMany,
		OperationUpsert:  upsert,
	},
}

// NewMetadataNode creates a metadata node.
func NewMetadataNode(id string, config map[string]any, opts ...betterstack.Option) (*execution.ResourceNode[Operation], error) {
	return execution.NewResourceNode(id, models.NodeTypeMetadata, dispatcher, config, opts...)
}

// Value converts one {type, value} entry into the API value shape: strings
// carry value, users carry email when the value looks like one, everything
// else carries item_id.
func Value(valueType, value string) map[string]any {
	switch {
	case valueType == ValueTypeString:
		return map[string]any{"type": valueType, "value": value}
	case valueType == ValueTypeUser && strings.Contains(value, "@"):
		return map[string]any{"type": valueType, "email": value}
	default:
		return map[string]any{"type": valueType, "item_id": value}
	}
}

// values reads the valuesUi entries of the metadataValues collection.
func values(p execution.Params) ([]map[string]any, error) {
	collection, err := p.Object("metadataValues")
	if err != nil {
		return nil, err
	}

	result := []map[string]any{}

	raw, ok := collection["valuesUi"]
	if !ok || raw == nil {
		return result, nil
	}

	entries, ok := raw.([]any)
	if !ok {
		return nil, &betterstack.MalformedInputError{Field: "metadataValues.valuesUi", Value: fmt.Sprint(raw)}
	}

	for i, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, &betterstack.MalformedInputError{Field: fmt.Sprintf("metadataValues.valuesUi[%d]", i), Value: fmt.Sprint(entry)}
		}

		valueType, _ := fields["type"].(string)
		value, _ := execution.LocatorValue(fields["value"])

		result = append(result, Value(valueType, value))
	}

	return result, nil
}

func getMany(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	filters, err := p.Object("filters")
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, betterstack.Metadata.List, betterstack.CleanQueryParams(filters))
}

func upsert(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	ownerType, err := p.String("ownerType")
	if err != nil {
		return nil, err
	}

	ownerID, err := p.String("ownerId")
	if err != nil {
		return nil, err
	}

	key, err := p.String("metadataKey")
	if err != nil {
		return nil, err
	}

	entries, err := values(p)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"owner_type": ownerType,
		"owner_id":   ownerID,
		"key":        key,
		"values":     entries,
	}

	return execution.Records(ctx, client, betterstack.Metadata.Upsert(body))
}
