package workflow

import (
	"context"
	"time"

	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/otelhelper"
	"github.com/dukex/operion-betterstack/pkg/protocol"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NodeCreator creates node instances by type.
type NodeCreator interface {
	CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (protocol.Node, error)
}

type Executor struct {
	nodes  NodeCreator
	tracer trace.Tracer
}

func NewExecutor(nodes NodeCreator) *Executor {
	return &Executor{
		nodes:  nodes,
		tracer: otel.Tracer("github.com/dukex/operion-betterstack/pkg/workflow"),
	}
}

// WithTracer replaces the tracer used for execution spans.
func (s *Executor) WithTracer(tracer trace.Tracer) *Executor {
	if tracer != nil {
		s.tracer = tracer
	}

	return s
}

// Execute creates the node and runs it over items. Node failures are
// reported both in the returned result and as the error.
func (s *Executor) Execute(ctx context.Context, node *models.WorkflowNode, items []models.Item, opts ...ExecutionOption) (*models.NodeResult, error) {
	opts = append([]ExecutionOption{WithExecutionID(uuid.New().String())}, opts...)
	execution := NewExecution(node, items, opts...)
	logger := execution.Logger().With("module", "workflow_executor", "execution_id", execution.ID)

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "node.execute",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	result := &models.NodeResult{
		NodeID:    node.ID,
		NodeType:  node.Type,
		Timestamp: time.Now().UTC(),
	}

	instance, err := s.nodes.CreateNode(ctx, node.Type, node.ID, node.Config)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to create node", "error", err)

		result.Status = string(models.NodeStatusError)
		result.Error = err.Error()

		return result, err
	}

	logger.InfoContext(ctx, "Executing node", "items", len(execution.InputItems()))

	output, err := instance.Execute(ctx, execution)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Node execution failed", "error", err)

		result.Status = string(models.NodeStatusError)
		result.Error = err.Error()

		return result, err
	}

	result.Status = string(models.NodeStatusSuccess)
	result.Items = output

	logger.InfoContext(ctx, "Node executed", "output_items", len(output))

	return result, nil
}
