// Package workflow runs configured Better Stack nodes over input items.
package workflow

import (
	"fmt"
	"log/slog"

	"github.com/dukex/operion-betterstack/pkg/models"
)

// ErrCredentialsNotFound is returned when a node asks for a credential set the
// execution was not given.
type ErrCredentialsNotFound struct {
	Name string
}

func (e *ErrCredentialsNotFound) Error() string {
	return fmt.Sprintf("credentials %q not found", e.Name)
}

// Execution is the host a node runs against. It implements
// protocol.ExecutionHost.
type Execution struct {
	ID             string
	node           *models.WorkflowNode
	items          []models.Item
	credentials    map[string]map[string]any
	continueOnFail bool
	logger         *slog.Logger
}

// ExecutionOption configures an Execution.
type ExecutionOption func(*Execution)

func WithCredentials(name string, values map[string]any) ExecutionOption {
	return func(e *Execution) {
		e.credentials[name] = values
	}
}

// WithAPIToken registers the Better Stack API token credential.
func WithAPIToken(token string) ExecutionOption {
	return WithCredentials(models.CredentialBetterStackAPI, map[string]any{models.CredentialAPIToken: token})
}

func WithContinueOnFail(continueOnFail bool) ExecutionOption {
	return func(e *Execution) {
		e.continueOnFail = continueOnFail
	}
}

func WithLogger(logger *slog.Logger) ExecutionOption {
	return func(e *Execution) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithExecutionID(id string) ExecutionOption {
	return func(e *Execution) {
		e.ID = id
	}
}

// NewExecution creates the host for running node over items. A node without
// input items runs once over a single empty item.
func NewExecution(node *models.WorkflowNode, items []models.Item, opts ...ExecutionOption) *Execution {
	if len(items) == 0 {
		items = []models.Item{{JSON: map[string]any{}}}
	}

	e := &Execution{
		node:           node,
		items:          items,
		credentials:    make(map[string]map[string]any),
		continueOnFail: node.ContinueOnFail,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With("node_id", node.ID, "node_type", node.Type)

	return e
}

func (e *Execution) InputItems() []models.Item {
	return e.items
}

// Parameter resolves name for one item: the item's own parameters win over
// the node configuration.
func (e *Execution) Parameter(name string, itemIndex int) (any, bool) {
	if itemIndex >= 0 && itemIndex < len(e.items) {
		if value, ok := e.items[itemIndex].Parameters[name]; ok {
			return value, true
		}
	}

	value, ok := e.node.Config[name]

	return value, ok
}

func (e *Execution) Credentials(name string) (map[string]any, error) {
	values, ok := e.credentials[name]
	if !ok {
		return nil, &ErrCredentialsNotFound{Name: name}
	}

	return values, nil
}

func (e *Execution) ContinueOnFail() bool {
	return e.continueOnFail
}

func (e *Execution) Logger() *slog.Logger {
	return e.logger
}
