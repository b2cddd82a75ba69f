// Package protocol defines the interfaces and contracts for pluggable nodes.
package protocol

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-betterstack/pkg/models"
)

// ExecutionHost is what a node sees of the running execution.
type ExecutionHost interface {
	// InputItems returns the items the node runs over.
	InputItems() []models.Item

	// Parameter resolves a named parameter for one input item. Per-item
	// overrides win over the node configuration.
	Parameter(name string, itemIndex int) (any, bool)

	// Credentials returns the named credential set.
	Credentials(name string) (map[string]any, error)

	// ContinueOnFail reports whether item failures become error items
	// instead of failing the execution.
	ContinueOnFail() bool

	Logger() *slog.Logger
}

// Node is a configured node instance.
type Node interface {
	ID() string
	Type() string
	Execute(ctx context.Context, host ExecutionHost) ([]models.Item, error)
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create creates a new node instance with the given configuration
	Create(ctx context.Context, id string, config map[string]any) (Node, error)

	// ID returns the unique identifier for this node type
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}

// OperationProvider is implemented by factories whose nodes dispatch on an
// operation parameter.
type OperationProvider interface {
	Operations() []string
}
