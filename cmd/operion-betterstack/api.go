package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/cache"
	"github.com/dukex/operion-betterstack/pkg/registry"
	"github.com/dukex/operion-betterstack/pkg/search"
	"github.com/dukex/operion-betterstack/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	cli "github.com/urfave/cli/v3"
)

const defaultAPIPort = 9091

type API struct {
	logger     *slog.Logger
	registry   *registry.Registry
	executor   web.NodeExecutor
	cache      search.Cache
	clientOpts []betterstack.Option
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	registry *registry.Registry,
	executor web.NodeExecutor,
	cache search.Cache,
	clientOpts ...betterstack.Option,
) *API {
	return &API{
		logger:     logger,
		registry:   registry,
		executor:   executor,
		cache:      cache,
		clientOpts: clientOpts,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		a.registry,
		a.executor,
		web.NewSearcherFactory(a.cache, a.logger, a.clientOpts...),
		a.validate,
		a.logger,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Operion Better Stack API")
	})

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}

func NewAPICommand() *cli.Command {
	return &cli.Command{
		Name:    "api",
		Aliases: []string{"a"},
		Usage:   "Serve the node execution and resource search HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultAPIPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL caching resource search pages (disabled when empty)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "How long search pages stay cached",
				Value: cache.DefaultTTL,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := newRuntime(ctx, command, "api")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			rt.logger.InfoContext(ctx, "Initializing Operion Better Stack API")

			var searchCache search.Cache

			if redisURL := command.String("redis-url"); redisURL != "" {
				redisCache, err := cache.NewRedisCacheFromURL(redisURL, "operion-betterstack:search", command.Duration("cache-ttl"))
				if err != nil {
					return err
				}

				defer func() {
					if err := redisCache.Close(); err != nil {
						rt.logger.ErrorContext(ctx, "Failed to close redis cache", "error", err)
					}
				}()

				if err := redisCache.Ping(ctx); err != nil {
					rt.logger.WarnContext(ctx, "Redis is unreachable, search results will not be cached", "error", err)
				} else {
					searchCache = redisCache
				}
			}

			api := NewAPI(rt.logger, rt.registry, rt.executor, searchCache, rt.clientOpts...)

			return api.Start(command.Int("port"))
		},
	}
}
