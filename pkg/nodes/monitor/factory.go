package monitor

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/protocol"
)

// MonitorNodeFactory creates monitor nodes.
type MonitorNodeFactory struct {
	opts []betterstack.Option
}

// NewMonitorNodeFactory creates a new monitor node factory. The options are
// passed to the client of every node it creates.
func NewMonitorNodeFactory(opts ...betterstack.Option) *MonitorNodeFactory {
	return &MonitorNodeFactory{opts: opts}
}

func (f *MonitorNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	node, err := NewMonitorNode(id, config, f.opts...)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (f *MonitorNodeFactory) ID() string {
	return models.NodeTypeMonitor
}

func (f *MonitorNodeFactory) Name() string {
	return "Better Stack Monitor"
}

func (f *MonitorNodeFactory) Description() string {
	return "Create, read, update and delete Better Stack uptime monitors and read their response times and availability"
}

func (f *MonitorNodeFactory) Operations() []string {
	return dispatcher.Names()
}

// Schema returns the JSON schema for monitor node configuration.
func (f *MonitorNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": execution.Properties(
			map[string]any{
				"operation": execution.OperationSchema(f.Operations(), string(OperationGetMany)),
				"monitorId": execution.LocatorSchema("Monitor to operate on"),
				"monitorType": map[string]any{
					"type":        "string",
					"description": "What the monitor checks",
					"enum":        []string{"status", "expected_status_code", "keyword", "keyword_absence", "ping", "tcp", "udp", "smtp", "pop", "imap", "dns", "playwright"},
				},
				"url": map[string]any{
					"type":        "string",
					"description": "URL or host to monitor",
					"examples":    []string{"https://example.com/health"},
				},
				"pronounceableName": map[string]any{
					"type":        "string",
					"description": "Name used in voice alerts",
				},
				"filters":          execution.ObjectSchema("List filters such as url and pronounceable_name"),
				"additionalFields": execution.ObjectSchema("Extra monitor attributes sent on create"),
				"updateFields":     execution.ObjectSchema("Monitor attributes to change"),
				"dateRange":        execution.DateRangeSchema(),
			},
			execution.ListSchemaProperties(),
		),
		"examples": []map[string]any{
			{"operation": "getMany", "returnAll": true, "filters": map[string]any{"url": "https://example.com"}},
			{
				"operation":         "create",
				"monitorType":       "status",
				"url":               "https://example.com",
				"pronounceableName": "Example",
				"additionalFields":  map[string]any{"check_frequency": 60, "expected_status_codes": "200, 201"},
			},
			{"operation": "getAvailability", "monitorId": "123456", "dateRange": map[string]any{"from": "2024-01-01", "to": "2024-01-31"}},
		},
	}
}
