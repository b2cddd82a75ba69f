package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/workflow"
)

// RecordedRequest is a request received by a Backend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

// Response is a canned backend reply. A nil Body sends no body.
type Response struct {
	Status int
	Body   any
}

// Backend is a stub Better Stack API. Routes are keyed by "METHOD /path",
// where the path includes the /api/<version> prefix.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string][]Response
	requests []RecordedRequest
}

// NewBackend starts a stub backend closed at the end of the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{routes: make(map[string][]Response)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)

	return b
}

// Handle queues responses for a route. The last response repeats.
func (b *Backend) Handle(method, path string, responses ...Response) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.routes[method+" "+path] = append(b.routes[method+" "+path], responses...)
}

// Options points a client at the backend.
func (b *Backend) Options() []betterstack.Option {
	return []betterstack.Option{
		betterstack.WithBaseURLs(map[betterstack.APIVersion]string{
			betterstack.APIv2: b.Server.URL + "/api/v2",
			betterstack.APIv3: b.Server.URL + "/api/v3",
		}),
		betterstack.WithHTTPClient(b.Server.Client()),
	}
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request.
func (b *Backend) LastRequest() RecordedRequest {
	requests := b.Requests()
	if len(requests) == 0 {
		return RecordedRequest{}
	}

	return requests[len(requests)-1]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	recorded := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	}

	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &recorded.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, recorded)

	key := r.Method + " " + r.URL.Path
	queue := b.routes[key]

	var response Response

	switch {
	case len(queue) == 0:
		response = Response{Status: http.StatusNotFound, Body: map[string]any{
			"errors": []map[string]any{{"title": "Not Found", "detail": "no stub for " + key}},
		}}
	case len(queue) == 1:
		response = queue[0]
	default:
		response = queue[0]
		b.routes[key] = queue[1:]
	}
	b.mu.Unlock()

	status := response.Status
	if status == 0 {
		status = http.StatusOK
	}

	if response.Body == nil {
		w.WriteHeader(status)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response.Body)
}

// Resource builds a JSON:API resource object.
func Resource(id, resourceType string, attributes map[string]any) map[string]any {
	return map[string]any{"id": id, "type": resourceType, "attributes": attributes}
}

// Single wraps one resource in an envelope.
func Single(resource map[string]any) map[string]any {
	return map[string]any{"data": resource}
}

// Page wraps resources in a collection envelope. A non-empty next adds a
// links.next URL.
func Page(next string, resources ...map[string]any) map[string]any {
	data := make([]map[string]any, 0, len(resources))
	data = append(data, resources...)

	envelope := map[string]any{"data": data}
	if next != "" {
		envelope["links"] = map[string]any{"next": next}
	}

	return envelope
}

// NewExecution builds an execution host for node with a test API token.
func NewExecution(node *models.WorkflowNode, items ...models.Item) *workflow.Execution {
	return workflow.NewExecution(node, items,
		workflow.WithAPIToken("test-token"),
		workflow.WithLogger(slog.New(slog.DiscardHandler)),
	)
}
