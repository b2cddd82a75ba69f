package betterstack

// resourceFamily builds the CRUD requests shared by every top-level
// collection. The API version is fixed per family.
type resourceFamily struct {
	version APIVersion
	path    string
}

func (f resourceFamily) List(query Query) Request {
	return get(f.version, f.path, query)
}

func (f resourceFamily) Get(id string) Request {
	return get(f.version, f.path+"/"+id, nil)
}

func (f resourceFamily) Create(body map[string]any) Request {
	return post(f.version, f.path, body)
}

func (f resourceFamily) Update(id string, body map[string]any) Request {
	return patch(f.version, f.path+"/"+id, body)
}

func (f resourceFamily) Delete(id string) Request {
	return del(f.version, f.path+"/"+id)
}

// Version reports the API version every request of the family uses.
func (f resourceFamily) Version() APIVersion {
	return f.version
}

type monitorFamily struct{ resourceFamily }

func (f monitorFamily) ResponseTimes(id string, query Query) Request {
	return get(f.version, f.path+"/"+id+"/response-times", query)
}

// Availability targets the SLA endpoint of a monitor.
func (f monitorFamily) Availability(id string, query Query) Request {
	return get(f.version, f.path+"/"+id+"/sla", query)
}

type heartbeatFamily struct{ resourceFamily }

func (f heartbeatFamily) Availability(id string, query Query) Request {
	return get(f.version, f.path+"/"+id+"/availability", query)
}

type incidentFamily struct{ resourceFamily }

func (f incidentFamily) Acknowledge(id string, body map[string]any) Request {
	return post(f.version, f.path+"/"+id+"/acknowledge", body)
}

func (f incidentFamily) Resolve(id string, body map[string]any) Request {
	return post(f.version, f.path+"/"+id+"/resolve", body)
}

func (f incidentFamily) Escalate(id string, body map[string]any) Request {
	return post(f.version, f.path+"/"+id+"/escalate", body)
}

func (f incidentFamily) Timeline(id string) Request {
	return get(f.version, f.path+"/"+id+"/timeline", nil)
}

type incidentCommentFamily struct {
	version APIVersion
}

func (f incidentCommentFamily) base(incidentID string) string {
	return "/incidents/" + incidentID + "/comments"
}

func (f incidentCommentFamily) List(incidentID string) Request {
	return get(f.version, f.base(incidentID), nil)
}

func (f incidentCommentFamily) Get(incidentID, commentID string) Request {
	return get(f.version, f.base(incidentID)+"/"+commentID, nil)
}

func (f incidentCommentFamily) Create(incidentID string, body map[string]any) Request {
	return post(f.version, f.base(incidentID), body)
}

func (f incidentCommentFamily) Update(incidentID, commentID string, body map[string]any) Request {
	return patch(f.version, f.base(incidentID)+"/"+commentID, body)
}

func (f incidentCommentFamily) Delete(incidentID, commentID string) Request {
	return del(f.version, f.base(incidentID)+"/"+commentID)
}

func (f incidentCommentFamily) Version() APIVersion {
	return f.version
}

type statusPageFamily struct{ resourceFamily }

func (f statusPageFamily) resources(statusPageID string) string {
	return f.path + "/" + statusPageID + "/resources"
}

func (f statusPageFamily) ListResources(statusPageID string, query Query) Request {
	return get(f.version, f.resources(statusPageID), query)
}

func (f statusPageFamily) GetResource(statusPageID, resourceID string) Request {
	return get(f.version, f.resources(statusPageID)+"/"+resourceID, nil)
}

func (f statusPageFamily) CreateResource(statusPageID string, body map[string]any) Request {
	return post(f.version, f.resources(statusPageID), body)
}

func (f statusPageFamily) UpdateResource(statusPageID, resourceID string, body map[string]any) Request {
	return patch(f.version, f.resources(statusPageID)+"/"+resourceID, body)
}

func (f statusPageFamily) DeleteResource(statusPageID, resourceID string) Request {
	return del(f.version, f.resources(statusPageID)+"/"+resourceID)
}

type metadataFamily struct {
	version APIVersion
}

func (f metadataFamily) List(query Query) Request {
	return get(f.version, "/metadata", query)
}

// Upsert creates or replaces the metadata record identified by owner and key.
func (f metadataFamily) Upsert(body map[string]any) Request {
	return post(f.version, "/metadata", body)
}

func (f metadataFamily) Version() APIVersion {
	return f.version
}

type monitorGroupFamily struct{ resourceFamily }

func (f monitorGroupFamily) ListMonitors(groupID string, query Query) Request {
	return get(f.version, f.path+"/"+groupID+"/monitors", query)
}

type heartbeatGroupFamily struct{ resourceFamily }

func (f heartbeatGroupFamily) ListHeartbeats(groupID string, query Query) Request {
	return get(f.version, f.path+"/"+groupID+"/heartbeats", query)
}

type listOnlyFamily struct {
	version APIVersion
	path    string
}

func (f listOnlyFamily) List(query Query) Request {
	return get(f.version, f.path, query)
}

func (f listOnlyFamily) Version() APIVersion {
	return f.version
}

var (
	Monitors         = monitorFamily{resourceFamily{version: APIv2, path: "/monitors"}}
	Heartbeats       = heartbeatFamily{resourceFamily{version: APIv2, path: "/heartbeats"}}
	Incidents        = incidentFamily{resourceFamily{version: APIv3, path: "/incidents"}}
	IncidentComments = incidentCommentFamily{version: APIv2}
	StatusPages      = statusPageFamily{resourceFamily{version: APIv2, path: "/status-pages"}}
	Metadata         = metadataFamily{version: APIv3}
	MonitorGroups    = monitorGroupFamily{resourceFamily{version: APIv2, path: "/monitor-groups"}}
	HeartbeatGroups  = heartbeatGroupFamily{resourceFamily{version: APIv2, path: "/heartbeat-groups"}}
	Policies         = resourceFamily{version: APIv3, path: "/policies"}
	OnCalls          = listOnlyFamily{version: APIv2, path: "/on-calls"}
	Teams            = listOnlyFamily{version: APIv2, path: "/teams"}
	Users            = listOnlyFamily{version: APIv2, path: "/users"}
)
