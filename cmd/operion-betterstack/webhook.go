package main

import (
	"context"
	"errors"

	"github.com/dukex/operion-betterstack/pkg/cmd"
	"github.com/dukex/operion-betterstack/pkg/sources/webhook"
	cli "github.com/urfave/cli/v3"
)

const defaultWebhookPort = 8085

var ErrMissingSources = errors.New("a webhook sources file is required (--sources or WEBHOOK_SOURCES)")

func NewWebhookCommand() *cli.Command {
	return &cli.Command{
		Name:    "webhook",
		Aliases: []string{"w"},
		Usage:   "Receive Better Stack webhooks and publish the classified events",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to receive webhooks on",
				Value:   defaultWebhookPort,
				Sources: cli.EnvVars("WEBHOOK_PORT"),
			},
			&cli.StringFlag{
				Name:    "sources",
				Usage:   "Path to the webhook sources file (JSON or YAML)",
				Sources: cli.EnvVars("WEBHOOK_SOURCES"),
			},
			&cli.BoolFlag{
				Name:  "print-events",
				Usage: "Also print published events to stdout",
			},
		}, eventBusFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.String("sources") == "" {
				return ErrMissingSources
			}

			rt, err := newRuntime(ctx, command, "webhook")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			sources, err := webhook.LoadSources(command.String("sources"))
			if err != nil {
				return err
			}

			bus, err := openEventBus(command, rt.logger)
			if err != nil {
				return err
			}
			defer closeEventBus(ctx, bus, rt.logger)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			if command.Bool("print-events") {
				if err := printEvents(ctx, bus, stdout(command)); err != nil {
					return err
				}
			}

			server := webhook.NewWebhookServer(command.Int("port"), webhook.NewMemoryStore(), rt.logger)
			server.SetCallback(cmd.NewSourceEventCallback(bus))

			for _, source := range sources {
				if err := server.RegisterSource(source); err != nil {
					return err
				}

				rt.logger.InfoContext(ctx, "Registered webhook source",
					"source_id", source.ID, "event", source.Event, "path", source.GetWebhookURL())
			}

			if err := server.Start(ctx); err != nil {
				return err
			}

			waitForShutdown(ctx, rt.logger)

			stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer stopCancel()

			return server.Stop(stopCtx)
		},
	}
}
