// Package webhook receives Better Stack webhook deliveries, classifies them
// and publishes the resulting events.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dukex/operion-betterstack/pkg/events"
	"github.com/dukex/operion-betterstack/pkg/nodes/trigger"
	"github.com/dukex/operion-betterstack/pkg/protocol"
	"github.com/dukex/operion-betterstack/pkg/sources/webhook/models"
	"github.com/xeipuuv/gojsonschema"
)

const (
	webhookReadTimeout     = 30 * time.Second
	webhookWriteTimeout    = 30 * time.Second
	webhookIdleTimeout     = 60 * time.Second
	webhookShutdownTimeout = 5 * time.Second
	maxRequestBodySize     = 1024 * 1024
)

// WebhookServer manages the HTTP server for webhook requests.
type WebhookServer struct {
	server   *http.Server
	port     int
	store    WebhookStore
	callback protocol.SourceEventCallback
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
	started  bool
	done     chan struct{}
	doneOnce sync.Once
}

// NewWebhookServer creates a new webhook server instance.
func NewWebhookServer(port int, store WebhookStore, logger *slog.Logger) *WebhookServer {
	return &WebhookServer{
		port:   port,
		store:  store,
		logger: logger.With("module", "webhook_server", "port", port),
		now:    time.Now,
		done:   make(chan struct{}),
	}
}

// RegisterSource stores a source and returns it with its webhook URL path.
func (s *WebhookServer) RegisterSource(source *models.WebhookSource) error {
	if err := s.store.SaveWebhookSource(source); err != nil {
		return err
	}

	s.logger.Info("Webhook source registered",
		"source_id", source.ID,
		"event", source.Event,
		"url", source.GetWebhookURL())

	return nil
}

// UnregisterSource removes a source by its internal ID.
func (s *WebhookServer) UnregisterSource(sourceID string) error {
	if err := s.store.DeleteWebhookSource(sourceID); err != nil {
		return err
	}

	s.logger.Info("Webhook source unregistered", "source_id", sourceID)

	return nil
}

// SetCallback sets the callback function for publishing source events.
func (s *WebhookServer) SetCallback(callback protocol.SourceEventCallback) {
	s.callback = callback
}

// Handler returns the HTTP handler serving /webhook/{uuid} and /health.
func (s *WebhookServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook/", s.handleWebhook)
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

// Start starts the HTTP server and begins handling webhook requests.
func (s *WebhookServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  webhookReadTimeout,
		WriteTimeout: webhookWriteTimeout,
		IdleTimeout:  webhookIdleTimeout,
	}

	s.started = true
	s.logger.Info("Starting webhook server", "addr", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Webhook server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.shutdown(context.WithoutCancel(ctx))
	}()

	return nil
}

// Stop gracefully shuts down the webhook server.
func (s *WebhookServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info("Stopping webhook server")

	shutdownCtx, cancel := context.WithTimeout(ctx, webhookShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Error during server shutdown", "error", err)

		return err
	}

	s.started = false
	s.doneOnce.Do(func() {
		close(s.done)
	})

	s.logger.Info("Webhook server stopped successfully")

	return nil
}

// Done returns a channel that's closed when the server is shut down.
func (s *WebhookServer) Done() <-chan struct{} {
	return s.done
}

func (s *WebhookServer) shutdown(ctx context.Context) {
	if err := s.Stop(ctx); err != nil {
		s.logger.Error("Error during webhook server shutdown", "error", err)
	}
}

func (s *WebhookServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	externalID := strings.TrimPrefix(r.URL.Path, "/webhook/")
	if externalID == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "Missing webhook UUID in path")

		return
	}

	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method allowed")

		return
	}

	source, err := s.store.WebhookSourceByExternalID(externalID)
	if err != nil {
		s.logger.Error("Error looking up webhook source", "uuid", externalID, "error", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "Error processing webhook")

		return
	}

	if source == nil || !source.Active {
		s.logger.Warn("Webhook request for unknown UUID", "uuid", externalID, "remote_addr", r.RemoteAddr)
		s.writeErrorResponse(w, http.StatusNotFound, "Webhook not found")

		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Error reading request body", "source_id", source.ID, "error", err)
		s.writeErrorResponse(w, http.StatusBadRequest, "Error reading request body")

		return
	}

	eventData := make(map[string]any)

	if len(body) > 0 {
		if err := json.Unmarshal(body, &eventData); err != nil {
			s.logger.Error("Error parsing JSON body", "source_id", source.ID, "error", err)
			s.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")

			return
		}
	}

	if source.HasJSONSchema() {
		if err := validateJSONSchema(eventData, source.JSONSchema); err != nil {
			s.logger.Warn("JSON schema validation failed", "source_id", source.ID, "error", err)
			s.writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Schema validation failed: %v", err))

			return
		}
	}

	node, err := trigger.NewTriggerNode(source.ID, source.TriggerConfig())
	if err != nil {
		s.logger.Error("Invalid trigger configuration", "source_id", source.ID, "error", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "Error processing webhook")

		return
	}

	ctx := r.Context()

	item, ok := node.HandleWebhook(ctx, protocol.WebhookRequest{
		Body:       eventData,
		Headers:    r.Header,
		Query:      extractQueryParams(r),
		ReceivedAt: s.now(),
	})
	if !ok {
		event := trigger.Classify(trigger.Payload(eventData))
		s.logger.Info("Webhook event filtered out", "source_id", source.ID, "event", event, "filter", source.Event)
		s.writeResponse(w, http.StatusOK, map[string]any{"status": "ignored", "event": string(event)})

		return
	}

	event, _ := item.JSON["event"].(string)

	if s.callback != nil {
		if err := s.callback(ctx, source.ID, events.ProviderWebhook, event, item.JSON); err != nil {
			s.logger.Error("Error publishing source event", "source_id", source.ID, "error", err)
			s.writeErrorResponse(w, http.StatusInternalServerError, "Error processing webhook")

			return
		}
	}

	s.logger.Info("Webhook processed successfully",
		"source_id", source.ID,
		"event", event,
		"remote_addr", r.RemoteAddr,
		"content_length", r.ContentLength)

	s.writeResponse(w, http.StatusOK, map[string]any{"status": "success", "event": event})
}

func (s *WebhookServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var hookCount int

	if sources, err := s.store.WebhookSources(); err == nil {
		hookCount = len(sources)
	}

	s.writeResponse(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"registered_hooks": hookCount,
		"timestamp":        s.now().UTC().Format(time.RFC3339),
	})
}

func validateJSONSchema(eventData map[string]any, schema map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(eventData))
	if err != nil {
		return err
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
	}

	return nil
}

// extractQueryParams keeps the first value of each query parameter.
func extractQueryParams(r *http.Request) map[string]string {
	params := make(map[string]string)

	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	return params
}

func (s *WebhookServer) writeResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Error encoding response", "error", err)
	}
}

func (s *WebhookServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeResponse(w, statusCode, map[string]any{
		"status":  "error",
		"message": message,
		"code":    statusCode,
	})
}
