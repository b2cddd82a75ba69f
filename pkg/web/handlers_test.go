package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dukex/operion-betterstack/pkg/cache"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/registry"
	"github.com/dukex/operion-betterstack/pkg/search"
	"github.com/dukex/operion-betterstack/pkg/testutil"
	"github.com/dukex/operion-betterstack/pkg/web"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, backend *testutil.Backend, searchCache search.Cache) *fiber.App {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	nodes := registry.NewRegistry(logger)
	nodes.RegisterDefaultNodes(backend.Options()...)

	handlers := web.NewAPIHandlers(
		nodes,
		workflow.NewExecutor(nodes),
		web.NewSearcherFactory(searchCache, logger, backend.Options()...),
		validator.New(validator.WithRequiredStructEnabled()),
		logger,
	)

	app := fiber.New()
	handlers.Register(app)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any, headers map[string]string) (int, []byte) {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return decoded
}

var bearer = map[string]string{"Authorization": "Bearer test-token"}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	app := setupTestApp(t, testutil.NewBackend(t), nil)

	status, raw := doRequest(t, app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	body := decodeMap(t, raw)
	assert.Equal(t, "healthy", body["status"])
	assert.InDelta(t, 8, body["nodes"], 0)
}

func TestAPIHandlers_GetNodes(t *testing.T) {
	app := setupTestApp(t, testutil.NewBackend(t), nil)

	status, raw := doRequest(t, app, http.MethodGet, "/nodes", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var descriptors []web.NodeDescriptor
	require.NoError(t, json.Unmarshal(raw, &descriptors))
	require.Len(t, descriptors, 8)

	for _, descriptor := range descriptors {
		if descriptor.ID == models.NodeTypeTrigger {
			assert.Equal(t, string(models.CategoryTypeTrigger), descriptor.Category)
			assert.Empty(t, descriptor.Operations)

			continue
		}

		assert.Equal(t, string(models.CategoryTypeAction), descriptor.Category, descriptor.ID)
		assert.NotEmpty(t, descriptor.Operations, descriptor.ID)
	}
}

func TestAPIHandlers_GetNode(t *testing.T) {
	app := setupTestApp(t, testutil.NewBackend(t), nil)

	status, raw := doRequest(t, app, http.MethodGet, "/nodes/incident", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var descriptor web.NodeDescriptor
	require.NoError(t, json.Unmarshal(raw, &descriptor))
	assert.Equal(t, models.NodeTypeIncident, descriptor.ID)
	assert.Contains(t, descriptor.Operations, "acknowledge")

	status, raw = doRequest(t, app, http.MethodGet, "/nodes/widget", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", decodeMap(t, raw)["type"])
}

func TestAPIHandlers_ExecuteNode(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors", testutil.Response{Body: testutil.Page("",
		testutil.Resource("1", "monitor", map[string]any{"url": "https://a.test"}),
		testutil.Resource("2", "monitor", map[string]any{"url": "https://b.test"}),
	)})

	app := setupTestApp(t, backend, nil)

	status, raw := doRequest(t, app, http.MethodPost, "/nodes/monitor/execute", web.ExecuteNodeRequest{
		NodeID:   "list-monitors",
		Config:   map[string]any{"operation": "getMany", "returnAll": true},
		APIToken: "body-token",
	}, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	var result models.NodeResult
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "list-monitors", result.NodeID)
	assert.Equal(t, string(models.NodeStatusSuccess), result.Status)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "https://b.test", result.Items[1].JSON["url"])

	assert.Equal(t, "Bearer body-token", backend.LastRequest().Header.Get("Authorization"))
}

func TestAPIHandlers_ExecuteNode_HeaderToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors/5", testutil.Response{Body: testutil.Single(
		testutil.Resource("5", "monitor", map[string]any{"url": "https://a.test"}),
	)})

	app := setupTestApp(t, backend, nil)

	status, raw := doRequest(t, app, http.MethodPost, "/nodes/betterstack:monitor/execute", web.ExecuteNodeRequest{
		Config: map[string]any{"operation": "get", "monitorId": "5"},
	}, bearer)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Bearer test-token", backend.LastRequest().Header.Get("Authorization"))
}

func TestAPIHandlers_ExecuteNode_Errors(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           any
		headers        map[string]string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "unknown node type",
			target:         "/nodes/widget/execute",
			body:           web.ExecuteNodeRequest{Config: map[string]any{}},
			headers:        bearer,
			expectedStatus: http.StatusNotFound,
			expectedType:   "not_found",
		},
		{
			name:           "invalid json",
			target:         "/nodes/monitor/execute",
			body:           "{not json",
			headers:        bearer,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
		{
			name:           "missing config",
			target:         "/nodes/monitor/execute",
			body:           map[string]any{"items": []any{}},
			headers:        bearer,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
		{
			name:           "missing token",
			target:         "/nodes/monitor/execute",
			body:           web.ExecuteNodeRequest{Config: map[string]any{"operation": "getMany"}},
			expectedStatus: http.StatusUnauthorized,
			expectedType:   "unauthorized",
		},
		{
			name:           "unsupported operation",
			target:         "/nodes/monitor/execute",
			body:           web.ExecuteNodeRequest{Config: map[string]any{"operation": "explode"}},
			headers:        bearer,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "invalid_config",
		},
		{
			name:           "missing required parameter",
			target:         "/nodes/monitor/execute",
			body:           web.ExecuteNodeRequest{Config: map[string]any{"operation": "get"}},
			headers:        bearer,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "missing_parameter",
		},
		{
			name:           "backend not found",
			target:         "/nodes/monitor/execute",
			body:           web.ExecuteNodeRequest{Config: map[string]any{"operation": "get", "monitorId": "99"}},
			headers:        bearer,
			expectedStatus: http.StatusNotFound,
			expectedType:   "resource_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t, testutil.NewBackend(t), nil)

			status, raw := doRequest(t, app, http.MethodPost, tt.target, tt.body, tt.headers)
			assert.Equal(t, tt.expectedStatus, status, string(raw))
			assert.Equal(t, tt.expectedType, decodeMap(t, raw)["type"])
		})
	}
}

func TestAPIHandlers_ExecuteNode_ContinueOnFail(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/monitors/1", testutil.Response{Body: testutil.Single(
		testutil.Resource("1", "monitor", map[string]any{"url": "https://a.test"}),
	)})

	app := setupTestApp(t, backend, nil)

	status, raw := doRequest(t, app, http.MethodPost, "/nodes/monitor/execute", web.ExecuteNodeRequest{
		Config: map[string]any{"operation": "get"},
		Items: []models.Item{
			{JSON: map[string]any{}, Parameters: map[string]any{"monitorId": "1"}},
			{JSON: map[string]any{}, Parameters: map[string]any{"monitorId": "2"}},
		},
		ContinueOnFail: true,
	}, bearer)
	require.Equal(t, http.StatusOK, status, string(raw))

	var result models.NodeResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Items, 2)
	assert.Equal(t, "1", result.Items[0].JSON["id"])
	assert.Contains(t, result.Items[1].JSON["error"], "HTTP 404")
	assert.Equal(t, 1, result.Items[1].PairedItem.Item)
}

func TestAPIHandlers_Search(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v3/policies", testutil.Response{Body: testutil.Page(
		backend.Server.URL+"/api/v3/policies?page=2",
		testutil.Resource("1", "policy", map[string]any{"name": "Escalate to on-call"}),
		testutil.Resource("2", "policy", map[string]any{"name": "Email only"}),
	)})

	app := setupTestApp(t, backend, nil)

	status, raw := doRequest(t, app, http.MethodGet, "/search/policies?filter=email", nil, bearer)
	require.Equal(t, http.StatusOK, status, string(raw))

	var page search.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, []search.Result{{Name: "Email only", Value: "2"}}, page.Results)
	assert.Equal(t, "2", page.PaginationToken)
}

func TestAPIHandlers_Search_Errors(t *testing.T) {
	app := setupTestApp(t, testutil.NewBackend(t), nil)

	status, _ := doRequest(t, app, http.MethodGet, "/search/monitors", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodGet, "/search/widgets", nil, bearer)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw := doRequest(t, app, http.MethodGet, "/search/monitors?paginationToken=abc", nil, bearer)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "malformed_input", decodeMap(t, raw)["type"])
}

func TestAPIHandlers_Search_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	backend := testutil.NewBackend(t)
	backend.Handle(http.MethodGet, "/api/v2/teams", testutil.Response{Body: testutil.Page("",
		testutil.Resource("1", "team", map[string]any{"name": "Platform"}),
	)})

	app := setupTestApp(t, backend, cache.NewRedisCache(redisClient, "search", time.Minute))

	for range 2 {
		status, _ := doRequest(t, app, http.MethodGet, "/search/teams", nil, bearer)
		require.Equal(t, http.StatusOK, status)
	}

	assert.Len(t, backend.Requests(), 1)
}
