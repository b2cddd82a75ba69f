package web

import (
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// NodeDescriptor describes a registered node type.
type NodeDescriptor struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Operations  []string       `json:"operations,omitempty"`
	Schema      map[string]any `json:"schema"`
}

// ExecuteNodeRequest is the body of a node execution. The API token falls
// back to the Authorization header when empty.
type ExecuteNodeRequest struct {
	NodeID         string         `json:"node_id"`
	Config         map[string]any `json:"config"           validate:"required"`
	Items          []models.Item  `json:"items"`
	APIToken       string         `json:"api_token,omitempty"`
	ContinueOnFail bool           `json:"continue_on_fail"`
}

// TransformNodeDescriptor builds the descriptor of a factory.
func TransformNodeDescriptor(factory protocol.NodeFactory) NodeDescriptor {
	descriptor := NodeDescriptor{
		ID:          factory.ID(),
		Name:        factory.Name(),
		Description: factory.Description(),
		Category:    string(categoryOf(factory.ID())),
		Schema:      factory.Schema(),
	}

	if provider, ok := factory.(protocol.OperationProvider); ok {
		descriptor.Operations = provider.Operations()
	}

	return descriptor
}

func categoryOf(nodeType string) models.CategoryType {
	if nodeType == models.NodeTypeTrigger {
		return models.CategoryTypeTrigger
	}

	return models.CategoryTypeAction
}
