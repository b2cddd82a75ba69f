// Package models defines the records, node descriptors and results exchanged
// between the host and Better Stack nodes.
package models

import (
	"time"
)

// CategoryType represents the category of node.
type CategoryType string

const (
	CategoryTypeAction  CategoryType = "action"  // Nodes executed over input items
	CategoryTypeTrigger CategoryType = "trigger" // Nodes fed by inbound webhooks
)

// Built-in node types.
const (
	NodeTypeMonitor        = "betterstack:monitor"
	NodeTypeHeartbeat      = "betterstack:heartbeat"
	NodeTypeIncident       = "betterstack:incident"
	NodeTypeStatusPage     = "betterstack:statusPage"
	NodeTypeMetadata       = "betterstack:metadata"
	NodeTypeMonitorGroup   = "betterstack:monitorGroup"
	NodeTypeHeartbeatGroup = "betterstack:heartbeatGroup"
	NodeTypeTrigger        = "betterstack:trigger"
)

// Credential names and keys.
const (
	CredentialBetterStackAPI = "betterStackApi"
	CredentialAPIToken       = "apiToken"
)

// WorkflowNode represents a configured node instance.
type WorkflowNode struct {
	ID             string         `json:"id"               validate:"required"`
	Type           string         `json:"type"             validate:"required"`
	Category       CategoryType   `json:"category"`
	Name           string         `json:"name"`
	Config         map[string]any `json:"config"`
	ContinueOnFail bool           `json:"continue_on_fail"`
}

// Helper methods for category checking.
func (n *WorkflowNode) IsActionNode() bool {
	return n.Category != CategoryTypeTrigger
}

func (n *WorkflowNode) IsTriggerNode() bool {
	return n.Category == CategoryTypeTrigger
}

// NodeResult represents the result of a node execution.
type NodeResult struct {
	NodeID    string    `json:"node_id"`
	NodeType  string    `json:"node_type"`
	Items     []Item    `json:"items"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// NodeStatus defines the possible states of a node execution.
type NodeStatus string

const (
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)
