package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dukex/operion-betterstack/pkg/eventbus"
	"github.com/dukex/operion-betterstack/pkg/events"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCommand()
	root.Writer = &out
	root.ErrWriter = io.Discard

	err := root.Run(context.Background(), append([]string{"operion-betterstack"}, args...))

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func monitorsBackend(t *testing.T) *testutil.Backend {
	t.Helper()

	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors", testutil.Response{Body: testutil.Page("",
		testutil.Resource("1", "monitor", map[string]any{"url": "https://a.test"}),
		testutil.Resource("2", "monitor", map[string]any{"url": "https://b.test"}),
	)})

	return backend
}

func TestExecCommand(t *testing.T) {
	backend := monitorsBackend(t)

	out, err := runCLI(t,
		"--api-url", backend.Server.URL,
		"exec",
		"--api-token", "cli-token",
		"--type", "monitor",
		"--node-id", "list",
		"--config", `{"operation": "getMany", "returnAll": true}`,
	)
	require.NoError(t, err)

	var result models.NodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "list", result.NodeID)
	assert.Equal(t, models.NodeTypeMonitor, result.NodeType)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "https://a.test", result.Items[0].JSON["url"])

	assert.Equal(t, "Bearer cli-token", backend.LastRequest().Header.Get("Authorization"))
}

func TestExecCommand_ConfigAndItemsFromFiles(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors/7", testutil.Response{Body: testutil.Single(
		testutil.Resource("7", "monitor", map[string]any{"url": "https://c.test"}),
	)})

	config := writeFile(t, "config.json", `{"operation": "get"}`)
	items := writeFile(t, "items.json", `[{"json": {}, "parameters": {"monitorId": "7"}}]`)

	out, err := runCLI(t,
		"--api-url", backend.Server.URL,
		"exec", "--api-token", "t", "--type", "betterstack:monitor",
		"--config", "@"+config, "--items", "@"+items,
	)
	require.NoError(t, err)

	var result models.NodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Items, 1)
	assert.Equal(t, "7", result.Items[0].JSON["id"])
}

func TestExecCommand_Errors(t *testing.T) {
	t.Setenv("BETTERSTACK_API_TOKEN", "")

	_, err := runCLI(t, "exec", "--type", "monitor")
	require.ErrorIs(t, err, ErrMissingAPIToken)

	_, err = runCLI(t, "exec", "--api-token", "t", "--type", "monitor", "--config", "{nope")
	require.ErrorContains(t, err, "invalid --config")

	backend := testutil.NewBackend(t)

	out, err := runCLI(t,
		"--api-url", backend.Server.URL,
		"exec", "--api-token", "t", "--type", "monitor",
		"--config", `{"operation": "get", "monitorId": "404"}`,
	)
	require.Error(t, err)

	var result models.NodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, string(models.NodeStatusError), result.Status)
	assert.Contains(t, result.Error, "HTTP 404")
}

func TestNodesCommand(t *testing.T) {
	out, err := runCLI(t, "nodes")
	require.NoError(t, err)

	assert.Contains(t, out, models.NodeTypeMonitor)
	assert.Contains(t, out, models.NodeTypeTrigger)
	assert.Contains(t, out, "operations: ")
}

func TestValidateCommand(t *testing.T) {
	sources := writeFile(t, "sources.json", `{"sources": [{"id": "incidents", "event": "incident.created"}]}`)
	jobs := writeFile(t, "jobs.json", `{"jobs": [
		{"id": "monitors", "cron": "*/5 * * * *", "node": {"type": "betterstack:monitor", "config": {"operation": "getMany"}}}
	]}`)

	out, err := runCLI(t, "validate", "--sources", sources, "--jobs", jobs)
	require.NoError(t, err)
	assert.Contains(t, out, "Webhook sources: 1 valid")
	assert.Contains(t, out, "Poll jobs: 1 valid, 0 invalid")

	invalidJobs := writeFile(t, "invalid.json", `{"jobs": [
		{"id": "monitors", "cron": "@hourly", "node": {"type": "betterstack:monitor", "config": {"operation": "explode"}}}
	]}`)

	out, err = runCLI(t, "validate", "--jobs", invalidJobs)
	require.ErrorIs(t, err, ErrInvalidJobs)
	assert.Contains(t, out, "0 valid, 1 invalid")

	_, err = runCLI(t, "validate")
	assert.ErrorIs(t, err, ErrNothingToValidate)
}

func TestLongRunningCommands_RequireInputs(t *testing.T) {
	t.Setenv("BETTERSTACK_API_TOKEN", "")
	t.Setenv("WEBHOOK_SOURCES", "")
	t.Setenv("POLL_JOBS", "")

	_, err := runCLI(t, "webhook")
	require.ErrorIs(t, err, ErrMissingSources)

	_, err = runCLI(t, "poll")
	require.ErrorIs(t, err, ErrMissingAPIToken)

	_, err = runCLI(t, "poll", "--api-token", "t")
	require.ErrorIs(t, err, ErrMissingJobs)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestPrintEvents(t *testing.T) {
	bus := eventbus.NewGoChannelSourceEventBus(testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var out syncBuffer
	require.NoError(t, printEvents(ctx, bus, &out))

	event := events.NewSourceEvent("monitors", events.ProviderPoller, events.PollCompletedEvent, map[string]any{"count": 2})
	require.NoError(t, bus.PublishSourceEvent(ctx, event))

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte(`"event_type":"poll.completed"`))
	}, 2*time.Second, 10*time.Millisecond)
}
