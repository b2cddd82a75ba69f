// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a test WorkflowNode with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:       uuid.New().String(),
		Type:     models.NodeTypeMonitor,
		Category: models.CategoryTypeAction,
		Name:     "Test Node",
		Config:   map[string]any{"operation": "getMany", "returnAll": true},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = nodeType
	}
}

// WithTriggerNode configures the node as the Better Stack trigger.
func WithTriggerNode(event string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = models.NodeTypeTrigger
		n.Category = models.CategoryTypeTrigger
		n.Config = map[string]any{"event": event}
	}
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Config = config
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Name = name
	}
}

// WithContinueOnFail turns failing items into error items.
func WithContinueOnFail() func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ContinueOnFail = true
	}
}

// CreateTestItems creates one input item per parameter set.
func CreateTestItems(parameters ...map[string]any) []models.Item {
	items := make([]models.Item, 0, len(parameters))
	for _, params := range parameters {
		items = append(items, models.Item{JSON: map[string]any{}, Parameters: params})
	}

	return items
}
