package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
	"github.com/dukex/operion-betterstack/pkg/registry"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func problem(c fiber.Ctx, status int, problemType, detail string) error {
	p := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(status).JSON(p)
}

func badRequest(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusBadRequest, "validation_error", detail)
}

func notFound(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusNotFound, "not_found", detail)
}

func unauthorized(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusUnauthorized, "unauthorized", detail)
}

func internalError(c fiber.Ctx, err error) error {
	p := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(p)
}

// handleNodeError maps node, registry and backend failures to problem responses.
func handleNodeError(c fiber.Ctx, err error) error {
	var transportErr *betterstack.TransportError

	switch {
	case errors.Is(err, registry.ErrNodeNotRegistered):
		return problem(c, fiber.StatusNotFound, "node_not_found", err.Error())

	case errors.Is(err, registry.ErrInvalidConfig):
		return problem(c, fiber.StatusBadRequest, "invalid_config", err.Error())

	case errors.Is(err, execution.ErrMissingCredentials):
		return unauthorized(c, err.Error())

	case errors.Is(err, execution.ErrMissingParameter):
		return problem(c, fiber.StatusBadRequest, "missing_parameter", err.Error())

	case betterstack.IsMalformedInput(err):
		return problem(c, fiber.StatusBadRequest, "malformed_input", err.Error())

	case betterstack.IsUnsupportedOperation(err):
		return problem(c, fiber.StatusBadRequest, "unsupported_operation", err.Error())

	case errors.As(err, &transportErr):
		switch transportErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return problem(c, fiber.StatusUnauthorized, "upstream_unauthorized", err.Error())
		case http.StatusNotFound:
			return problem(c, fiber.StatusNotFound, "resource_not_found", err.Error())
		default:
			return problem(c, fiber.StatusBadGateway, "upstream_error", err.Error())
		}

	case errors.Is(err, context.DeadlineExceeded):
		return problem(c, fiber.StatusGatewayTimeout, "timeout", err.Error())

	default:
		return internalError(c, err)
	}
}
