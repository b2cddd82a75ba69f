package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/cmd"
	"github.com/dukex/operion-betterstack/pkg/log"
	"github.com/dukex/operion-betterstack/pkg/otelhelper"
	"github.com/dukex/operion-betterstack/pkg/registry"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "operion-betterstack"

func apiTokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "api-token",
		Usage:   "Better Stack Uptime API token",
		Sources: cli.EnvVars("BETTERSTACK_API_TOKEN"),
	}
}

func eventBusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (gochannel, kafka)",
			Value:   cmd.EventBusGoChannel,
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma-separated Kafka brokers",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
	}
}

// runtime holds what every command shares: logger, node registry, executor
// and the optional tracer.
type runtime struct {
	logger     *slog.Logger
	registry   *registry.Registry
	executor   *workflow.Executor
	clientOpts []betterstack.Option
	shutdown   func(context.Context) error
}

func newRuntime(ctx context.Context, command *cli.Command, module string) (*runtime, error) {
	log.SetupWriter(stderr(command), command.String("log-level"))

	rt := &runtime{
		logger:   log.WithModule(module),
		shutdown: func(context.Context) error { return nil },
	}

	if apiURL := strings.TrimRight(command.String("api-url"), "/"); apiURL != "" {
		rt.clientOpts = append(rt.clientOpts, betterstack.WithBaseURLs(map[betterstack.APIVersion]string{
			betterstack.APIv2: apiURL + "/api/v2",
			betterstack.APIv3: apiURL + "/api/v3",
		}))
	}

	var tracer trace.Tracer

	if command.Bool("tracing") {
		provider, err := otelhelper.NewTracerProvider(ctx, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}

		tracer = provider.Tracer(serviceName)
		rt.shutdown = provider.Shutdown
		rt.clientOpts = append(rt.clientOpts, betterstack.WithTracer(tracer))
	}

	reg, err := cmd.NewRegistry(ctx, rt.logger, command.String("plugins-path"), rt.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load node plugins: %w", err)
	}

	rt.registry = reg
	rt.executor = workflow.NewExecutor(reg).WithTracer(tracer)

	return rt, nil
}

func (rt *runtime) close(ctx context.Context) {
	if err := rt.shutdown(ctx); err != nil {
		rt.logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
	}
}

func stdout(command *cli.Command) io.Writer {
	if w := command.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(command *cli.Command) io.Writer {
	if w := command.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}
