package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/dukex/operion-betterstack/pkg/cmd"
	"github.com/dukex/operion-betterstack/pkg/eventbus"
	"github.com/dukex/operion-betterstack/pkg/events"
	cli "github.com/urfave/cli/v3"
)

func NewEventsCommand() *cli.Command {
	return &cli.Command{
		Name:    "events",
		Aliases: []string{"e"},
		Usage:   "Print the source events published to the event bus as JSON lines",
		Flags:   eventBusFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := newRuntime(ctx, command, "events")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			bus, err := openEventBus(command, rt.logger)
			if err != nil {
				return err
			}
			defer closeEventBus(ctx, bus, rt.logger)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			if err := printEvents(ctx, bus, stdout(command)); err != nil {
				return err
			}

			waitForShutdown(ctx, rt.logger)

			return nil
		},
	}
}

func openEventBus(command *cli.Command, logger *slog.Logger) (eventbus.SourceEventBus, error) {
	return cmd.NewSourceEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
}

func closeEventBus(ctx context.Context, bus eventbus.SourceEventBus, logger *slog.Logger) {
	if err := bus.Close(); err != nil {
		logger.ErrorContext(ctx, "Failed to close source event bus", "error", err)
	}
}

// printEvents subscribes to bus and writes every event to w as one JSON line.
func printEvents(ctx context.Context, bus eventbus.SourceEventSubscriber, w io.Writer) error {
	var mu sync.Mutex

	encoder := json.NewEncoder(w)

	err := bus.HandleSourceEvents(func(_ context.Context, event *events.SourceEvent) error {
		mu.Lock()
		defer mu.Unlock()

		return encoder.Encode(event)
	})
	if err != nil {
		return err
	}

	return bus.SubscribeToSourceEvents(ctx)
}
