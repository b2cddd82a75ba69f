package execution

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// ResourceNode is a node that runs one operation of a resource family per
// input item.
type ResourceNode[O ~string] struct {
	id         string
	nodeType   string
	dispatcher Dispatcher[O]
	opts       []betterstack.Option
}

// NewResourceNode validates the configured operation, if any, and returns
// the node.
func NewResourceNode[O ~string](id, nodeType string, dispatcher Dispatcher[O], config map[string]any, opts ...betterstack.Option) (*ResourceNode[O], error) {
	if err := dispatcher.Validate(config); err != nil {
		return nil, err
	}

	return &ResourceNode[O]{
		id:         id,
		nodeType:   nodeType,
		dispatcher: dispatcher,
		opts:       opts,
	}, nil
}

func (n *ResourceNode[O]) ID() string {
	return n.id
}

func (n *ResourceNode[O]) Type() string {
	return n.nodeType
}

// Operations returns the supported operation names.
func (n *ResourceNode[O]) Operations() []string {
	return n.dispatcher.Names()
}

func (n *ResourceNode[O]) Execute(ctx context.Context, host protocol.ExecutionHost) ([]models.Item, error) {
	return Execute(ctx, host, n.id, n.dispatcher, n.opts...)
}
