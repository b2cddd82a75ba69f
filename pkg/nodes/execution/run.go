package execution

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// ErrMissingCredentials is returned when the execution has no usable API token.
var ErrMissingCredentials = errors.New("better stack credentials are missing an API token")

// NodeOperationError is the failure surfaced by a node. ItemIndex is -1 when
// the failure is not tied to an input item.
type NodeOperationError struct {
	NodeID    string
	ItemIndex int
	Err       error
}

func (e *NodeOperationError) Error() string {
	if e.ItemIndex < 0 {
		return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
	}

	return fmt.Sprintf("node %s, item %d: %v", e.NodeID, e.ItemIndex, e.Err)
}

func (e *NodeOperationError) Unwrap() error {
	return e.Err
}

// Handler runs one operation for one input item and returns its records.
type Handler func(ctx context.Context, client *betterstack.Client, p Params) ([]map[string]any, error)

// Dispatcher maps the closed set of operations of a resource to handlers.
type Dispatcher[O ~string] struct {
	Resource   string
	Operations []O
	Handlers   map[O]Handler
}

// Lookup returns the handler of an operation name.
func (d Dispatcher[O]) Lookup(operation string) (Handler, error) {
	op := O(operation)
	if !slices.Contains(d.Operations, op) {
		return nil, &betterstack.UnsupportedOperationError{Resource: d.Resource, Operation: operation}
	}

	handler, ok := d.Handlers[op]
	if !ok {
		return nil, &betterstack.UnsupportedOperationError{Resource: d.Resource, Operation: operation}
	}

	return handler, nil
}

// Names returns the operation names in declaration order.
func (d Dispatcher[O]) Names() []string {
	names := make([]string, 0, len(d.Operations))
	for _, op := range d.Operations {
		names = append(names, string(op))
	}

	return names
}

// Validate checks that a configured operation, if any, is supported.
func (d Dispatcher[O]) Validate(config map[string]any) error {
	raw, ok := config["operation"]
	if !ok {
		return nil
	}

	operation, ok := raw.(string)
	if !ok {
		return &betterstack.MalformedInputError{Field: "operation", Value: fmt.Sprint(raw)}
	}

	_, err := d.Lookup(operation)

	return err
}

// NewClient builds a client from the execution credentials. The token is
// read once per execution.
func NewClient(host protocol.ExecutionHost, opts ...betterstack.Option) (*betterstack.Client, error) {
	credentials, err := host.Credentials(models.CredentialBetterStackAPI)
	if err != nil {
		return nil, err
	}

	token, _ := credentials[models.CredentialAPIToken].(string)
	if token == "" {
		return nil, ErrMissingCredentials
	}

	opts = append([]betterstack.Option{betterstack.WithLogger(host.Logger())}, opts...)

	return betterstack.NewClient(token, opts...)
}

// Run processes every input item in order. A failing item either becomes an
// {error} item paired with it (continue on fail) or aborts the run.
func Run(ctx context.Context, host protocol.ExecutionHost, nodeID string, fn func(ctx context.Context, p Params) ([]map[string]any, error)) ([]models.Item, error) {
	items := host.InputItems()
	output := make([]models.Item, 0, len(items))
	logger := host.Logger()

	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, &NodeOperationError{NodeID: nodeID, ItemIndex: i, Err: err}
		}

		records, err := fn(ctx, NewParams(host, i))
		if err != nil {
			if host.ContinueOnFail() {
				logger.WarnContext(ctx, "Item failed, continuing", "node_id", nodeID, "item_index", i, "error", err)
				output = append(output, models.NewErrorItem(err.Error(), i))

				continue
			}

			return nil, &NodeOperationError{NodeID: nodeID, ItemIndex: i, Err: err}
		}

		for _, record := range records {
			output = append(output, models.NewItem(record, i))
		}
	}

	return output, nil
}

// Execute builds the client, then runs the operation named by each item's
// "operation" parameter.
func Execute[O ~string](ctx context.Context, host protocol.ExecutionHost, nodeID string, dispatcher Dispatcher[O], opts ...betterstack.Option) ([]models.Item, error) {
	client, err := NewClient(host, opts...)
	if err != nil {
		return nil, &NodeOperationError{NodeID: nodeID, ItemIndex: -1, Err: err}
	}

	return Run(ctx, host, nodeID, func(ctx context.Context, p Params) ([]map[string]any, error) {
		operation, err := p.String("operation")
		if err != nil {
			return nil, err
		}

		handler, err := dispatcher.Lookup(operation)
		if err != nil {
			return nil, err
		}

		return handler(ctx, client, p)
	})
}
