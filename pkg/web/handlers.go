// Package web provides HTTP handlers for running Better Stack nodes and
// searching Better Stack resources.
package web

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/registry"
	"github.com/dukex/operion-betterstack/pkg/search"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const nodeTypePrefix = "betterstack:"

// NodeExecutor runs a node over input items.
type NodeExecutor interface {
	Execute(ctx context.Context, node *models.WorkflowNode, items []models.Item, opts ...workflow.ExecutionOption) (*models.NodeResult, error)
}

// SearcherFactory builds a searcher for an API token.
type SearcherFactory func(token string) (*search.Searcher, error)

// NewSearcherFactory returns a factory creating clients with opts. A nil
// cache disables caching.
func NewSearcherFactory(cache search.Cache, logger *slog.Logger, opts ...betterstack.Option) SearcherFactory {
	return func(token string) (*search.Searcher, error) {
		client, err := betterstack.NewClient(token, append([]betterstack.Option{betterstack.WithLogger(logger)}, opts...)...)
		if err != nil {
			return nil, err
		}

		searchOpts := []search.Option{search.WithLogger(logger)}
		if cache != nil {
			searchOpts = append(searchOpts, search.WithCache(cache, token))
		}

		return search.NewSearcher(client, searchOpts...), nil
	}
}

type APIHandlers struct {
	registry  *registry.Registry
	executor  NodeExecutor
	searchers SearcherFactory
	validator *validator.Validate
	logger    *slog.Logger
}

func NewAPIHandlers(
	registry *registry.Registry,
	executor NodeExecutor,
	searchers SearcherFactory,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		registry:  registry,
		executor:  executor,
		searchers: searchers,
		validator: validator,
		logger:    logger.With("module", "api_handlers"),
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	nodes := len(h.registry.GetAvailableNodes())

	status := "healthy"
	httpStatus := fiber.StatusOK

	if nodes == 0 {
		status = "unhealthy"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"nodes":     nodes,
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetNodes(c fiber.Ctx) error {
	factories := h.registry.GetAvailableNodes()
	descriptors := make([]NodeDescriptor, 0, len(factories))

	for _, factory := range factories {
		descriptors = append(descriptors, TransformNodeDescriptor(factory))
	}

	return c.JSON(descriptors)
}

func (h *APIHandlers) GetNode(c fiber.Ctx) error {
	factory, ok := h.registry.GetNode(nodeType(c.Params("type")))
	if !ok {
		return notFound(c, "Node type not found")
	}

	return c.JSON(TransformNodeDescriptor(factory))
}

func (h *APIHandlers) ExecuteNode(c fiber.Ctx) error {
	typ := nodeType(c.Params("type"))
	if _, ok := h.registry.GetNode(typ); !ok {
		return notFound(c, "Node type not found")
	}

	var req ExecuteNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	token := req.APIToken
	if token == "" {
		token = bearerToken(c)
	}

	if token == "" {
		return unauthorized(c, "A Better Stack API token is required")
	}

	node := &models.WorkflowNode{
		ID:             req.NodeID,
		Type:           typ,
		Category:       categoryOf(typ),
		Config:         req.Config,
		ContinueOnFail: req.ContinueOnFail,
	}

	if node.ID == "" {
		node.ID = uuid.New().String()
	}

	result, err := h.executor.Execute(c.Context(), node, req.Items,
		workflow.WithAPIToken(token),
		workflow.WithLogger(h.logger),
	)
	if err != nil {
		return handleNodeError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) Search(c fiber.Ctx) error {
	kind := search.Kind(c.Params("kind"))

	token := bearerToken(c)
	if token == "" {
		return unauthorized(c, "A Better Stack API token is required")
	}

	searcher, err := h.searchers(token)
	if err != nil {
		return handleNodeError(c, err)
	}

	page, err := searcher.Search(c.Context(), search.Request{
		Kind:            kind,
		Filter:          c.Query("filter"),
		PaginationToken: c.Query("paginationToken"),
		ParentID:        c.Query("parentId"),
	})
	if err != nil {
		if betterstack.IsUnsupportedOperation(err) {
			return notFound(c, "Unknown search kind "+string(kind))
		}

		return handleNodeError(c, err)
	}

	return c.JSON(page)
}

// nodeType accepts both "monitor" and "betterstack:monitor".
func nodeType(param string) string {
	if strings.Contains(param, ":") {
		return param
	}

	return nodeTypePrefix + param
}

func bearerToken(c fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}

// Register mounts the node and search routes on router.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Get("/health", h.HealthCheck)

	n := router.Group("/nodes")
	n.Get("/", h.GetNodes)
	n.Get("/:type", h.GetNode)
	n.Post("/:type/execute", h.ExecuteNode)

	router.Get("/search/:kind", h.Search)
}
