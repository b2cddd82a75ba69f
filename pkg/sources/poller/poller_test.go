package poller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dukex/operion-betterstack/pkg/events"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/registry"
	"github.com/dukex/operion-betterstack/pkg/testutil"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	sourceID   string
	providerID string
	eventType  string
	data       map[string]any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) callback(_ context.Context, sourceID, providerID, eventType string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, recordedEvent{sourceID, providerID, eventType, data})

	return nil
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

type stubExecutor struct {
	result *models.NodeResult
	err    error
}

func (s *stubExecutor) Execute(_ context.Context, node *models.WorkflowNode, _ []models.Item, _ ...workflow.ExecutionOption) (*models.NodeResult, error) {
	if s.err != nil {
		return &models.NodeResult{NodeID: node.ID, Status: string(models.NodeStatusError), Error: s.err.Error()}, s.err
	}

	return s.result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func monitorJob() Job {
	return Job{
		ID:             "monitors",
		CronExpression: "@every 1s",
		Node: models.WorkflowNode{
			ID:     "list-monitors",
			Type:   models.NodeTypeMonitor,
			Config: map[string]any{"operation": "getMany", "returnAll": true},
		},
	}
}

func TestRunJob_Completed(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors", testutil.Response{Body: testutil.Page("",
		testutil.Resource("1", "monitor", map[string]any{"url": "https://a.test", "status": "down"}),
	)})

	nodes := registry.NewRegistry(discardLogger())
	nodes.RegisterDefaultNodes(backend.Options()...)

	recorder := &eventRecorder{}
	p := NewPoller(workflow.NewExecutor(nodes), "test-token", discardLogger())

	require.NoError(t, p.RunJob(context.Background(), monitorJob(), recorder.callback))

	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, "monitors", event.sourceID)
	assert.Equal(t, events.ProviderPoller, event.providerID)
	assert.Equal(t, events.PollCompletedEvent, event.eventType)
	assert.Equal(t, 1, event.data["count"])
	assert.Equal(t, "list-monitors", event.data["node_id"])

	items, ok := event.data["items"].([]any)
	require.True(t, ok)
	assert.Equal(t, "down", items[0].(map[string]any)["status"])

	assert.Equal(t, "Bearer test-token", backend.LastRequest().Header.Get("Authorization"))
}

func TestRunJob_Failed(t *testing.T) {
	recorder := &eventRecorder{}
	p := NewPoller(&stubExecutor{err: errors.New("HTTP 401")}, "bad-token", discardLogger())

	require.NoError(t, p.RunJob(context.Background(), monitorJob(), recorder.callback))

	require.Len(t, recorder.events, 1)
	assert.Equal(t, events.PollFailedEvent, recorder.events[0].eventType)
	assert.Equal(t, "HTTP 401", recorder.events[0].data["error"])
}

func TestRunJob_CallbackError(t *testing.T) {
	p := NewPoller(&stubExecutor{result: &models.NodeResult{}}, "token", discardLogger())

	err := p.RunJob(context.Background(), monitorJob(), func(context.Context, string, string, string, map[string]any) error {
		return errors.New("bus down")
	})
	assert.EqualError(t, err, "bus down")
}

func TestPoller_StartRunsScheduledJobs(t *testing.T) {
	recorder := &eventRecorder{}
	executor := &stubExecutor{result: &models.NodeResult{Items: []models.Item{{JSON: map[string]any{"id": "1"}}}}}
	p := NewPoller(executor, "token", discardLogger())

	disabled := monitorJob()
	disabled.ID = "disabled"
	disabled.Disabled = true

	require.NoError(t, p.Start(context.Background(), []Job{monitorJob(), disabled}, recorder.callback))
	t.Cleanup(func() { _ = p.Stop(context.Background()) })

	runs := p.NextRuns()
	assert.Contains(t, runs, "monitors")
	assert.NotContains(t, runs, "disabled")

	assert.Eventually(t, func() bool { return recorder.count() > 0 }, 5*time.Second, 50*time.Millisecond)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	assert.Equal(t, "monitors", recorder.events[0].sourceID)
	assert.Equal(t, events.PollCompletedEvent, recorder.events[0].eventType)
}

func TestPoller_StartErrors(t *testing.T) {
	recorder := &eventRecorder{}
	p := NewPoller(&stubExecutor{}, "token", discardLogger())

	assert.ErrorIs(t, p.Start(context.Background(), nil, nil), ErrNoCallback)

	invalid := monitorJob()
	invalid.CronExpression = "nope"
	assert.ErrorIs(t, p.Start(context.Background(), []Job{invalid}, recorder.callback), ErrInvalidJob)

	require.NoError(t, p.Start(context.Background(), nil, recorder.callback))
	assert.ErrorIs(t, p.Start(context.Background(), nil, recorder.callback), ErrAlreadyStarted)

	require.NoError(t, p.Stop(context.Background()))
	require.NoError(t, p.Stop(context.Background()))
}

func TestPoller_StartFailureForgetsScheduledJobs(t *testing.T) {
	recorder := &eventRecorder{}
	p := NewPoller(&stubExecutor{}, "token", discardLogger())

	invalid := monitorJob()
	invalid.ID = "broken"
	invalid.CronExpression = "nope"

	require.ErrorIs(t, p.Start(context.Background(), []Job{monitorJob(), invalid}, recorder.callback), ErrInvalidJob)
	assert.Empty(t, p.jobs)

	yearly := monitorJob()
	yearly.ID = "yearly"
	yearly.CronExpression = "@yearly"

	require.NoError(t, p.Start(context.Background(), []Job{yearly}, recorder.callback))
	t.Cleanup(func() { _ = p.Stop(context.Background()) })

	runs := p.NextRuns()
	assert.Len(t, runs, 1)
	assert.Contains(t, runs, "yearly")
}
