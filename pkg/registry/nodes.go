package registry

import (
	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/nodes/heartbeat"
	"github.com/dukex/operion-betterstack/pkg/nodes/heartbeatgroup"
	"github.com/dukex/operion-betterstack/pkg/nodes/incident"
	"github.com/dukex/operion-betterstack/pkg/nodes/metadata"
	"github.com/dukex/operion-betterstack/pkg/nodes/monitor"
	"github.com/dukex/operion-betterstack/pkg/nodes/monitorgroup"
	"github.com/dukex/operion-betterstack/pkg/nodes/statuspage"
	"github.com/dukex/operion-betterstack/pkg/nodes/trigger"
)

// RegisterDefaultNodes registers every Better Stack node. The client options
// are handed to each resource node.
func (r *Registry) RegisterDefaultNodes(opts ...betterstack.Option) {
	r.RegisterNode(monitor.NewMonitorNodeFactory(opts...))
	r.RegisterNode(heartbeat.NewHeartbeatNodeFactory(opts...))
	r.RegisterNode(incident.NewIncidentNodeFactory(opts...))
	r.RegisterNode(statuspage.NewStatusPageNodeFactory(opts...))
	r.RegisterNode(metadata.NewMetadataNodeFactory(opts...))
	r.RegisterNode(monitorgroup.NewMonitorGroupNodeFactory(opts...))
	r.RegisterNode(heartbeatgroup.NewHeartbeatGroupNodeFactory(opts...))

	r.RegisterNode(trigger.NewTriggerNodeFactory())
}
