package betterstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dukex/operion-betterstack/pkg/betterstack"

// Client executes Requests against the Better Stack Uptime API.
type Client struct {
	token      string
	baseURLs   map[APIVersion]string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	maxPages   int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the base URL of one API version.
func WithBaseURL(version APIVersion, baseURL string) Option {
	return func(c *Client) {
		c.baseURLs[version] = strings.TrimRight(baseURL, "/")
	}
}

// WithBaseURLs overrides the base URL of every given API version.
func WithBaseURLs(baseURLs map[APIVersion]string) Option {
	return func(c *Client) {
		for version, baseURL := range baseURLs {
			c.baseURLs[version] = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("module", "betterstack_client")
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithMaxPages bounds how many pages FetchAll follows. Zero means unlimited.
func WithMaxPages(maxPages int) Option {
	return func(c *Client) {
		if maxPages >= 0 {
			c.maxPages = maxPages
		}
	}
}

// NewClient creates a client authenticated with the given API token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		token: token,
		baseURLs: map[APIVersion]string{
			APIv2: DefaultBaseURLv2,
			APIv3: DefaultBaseURLv3,
		},
		httpClient: http.DefaultClient,
		logger:     slog.Default().With("module", "betterstack_client"),
		tracer:     otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the base URL used for the given version.
func (c *Client) BaseURL(version APIVersion) string {
	if baseURL, ok := c.baseURLs[version]; ok {
		return baseURL
	}

	return c.baseURLs[APIv2]
}

// Execute performs a request and decodes the JSON:API envelope.
func (c *Client) Execute(ctx context.Context, req Request) (*Envelope, error) {
	status, body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s %s response (HTTP %d): %w", req.Method, req.Endpoint, status, err)
	}

	return envelope, nil
}

// ExecuteDiscardingBody performs a request and ignores the response body.
func (c *Client) ExecuteDiscardingBody(ctx context.Context, req Request) error {
	_, _, err := c.do(ctx, req)

	return err
}

func (c *Client) do(ctx context.Context, req Request) (int, []byte, error) {
	version := req.Version()
	target := c.BaseURL(version) + req.Endpoint

	if encoded := req.Query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "betterstack.request",
		attribute.String(otelhelper.HTTPMethodKey, req.Method),
		attribute.String(otelhelper.EndpointKey, req.Endpoint),
		attribute.String(otelhelper.APIVersionKey, string(version)),
	)
	defer span.End()

	var payload io.Reader

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			otelhelper.SetError(span, err)

			return 0, nil, &MalformedInputError{Field: "body", Value: req.Endpoint, Err: err}
		}

		payload = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, payload)
	if err != nil {
		otelhelper.SetError(span, err)

		return 0, nil, &TransportError{Method: req.Method, Endpoint: req.Endpoint, Err: err}
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.DebugContext(ctx, "Sending request", "method", req.Method, "endpoint", req.Endpoint, "api_version", version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		otelhelper.SetError(span, err)

		return 0, nil, &TransportError{Method: req.Method, Endpoint: req.Endpoint, Err: err}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.DebugContext(ctx, "Failed to close response body", "error", err)
		}
	}()

	span.SetAttributes(attribute.Int(otelhelper.HTTPStatusKey, resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		otelhelper.SetError(span, err)

		return resp.StatusCode, nil, &TransportError{
			Method: req.Method, Endpoint: req.Endpoint, StatusCode: resp.StatusCode, Err: err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		transportErr := &TransportError{
			Method:     req.Method,
			Endpoint:   req.Endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
		otelhelper.SetError(span, transportErr)

		c.logger.DebugContext(ctx, "Request failed",
			"method", req.Method, "endpoint", req.Endpoint, "status", resp.StatusCode)

		return resp.StatusCode, body, transportErr
	}

	return resp.StatusCode, body, nil
}

func errorMessage(body []byte) string {
	envelope, err := decodeEnvelope(body)
	if err != nil {
		return ""
	}

	return envelope.ErrorMessage()
}
