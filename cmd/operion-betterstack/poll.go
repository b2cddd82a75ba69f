package main

import (
	"context"
	"errors"

	"github.com/dukex/operion-betterstack/pkg/cmd"
	"github.com/dukex/operion-betterstack/pkg/sources/poller"
	cli "github.com/urfave/cli/v3"
)

var ErrMissingJobs = errors.New("a poll jobs file is required (--jobs or POLL_JOBS)")

func NewPollCommand() *cli.Command {
	return &cli.Command{
		Name:    "poll",
		Aliases: []string{"p"},
		Usage:   "Run node operations on cron schedules and publish the results",
		Flags: append([]cli.Flag{
			apiTokenFlag(),
			&cli.StringFlag{
				Name:    "jobs",
				Usage:   "Path to the poll jobs file (JSON or YAML)",
				Sources: cli.EnvVars("POLL_JOBS"),
			},
			&cli.BoolFlag{
				Name:  "print-events",
				Usage: "Also print published events to stdout",
			},
		}, eventBusFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			token := command.String("api-token")
			if token == "" {
				return ErrMissingAPIToken
			}

			if command.String("jobs") == "" {
				return ErrMissingJobs
			}

			jobs, err := poller.LoadJobs(command.String("jobs"))
			if err != nil {
				return err
			}

			rt, err := newRuntime(ctx, command, "poll")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			for _, job := range jobs {
				if err := rt.registry.ValidateConfig(job.Node.Type, job.Node.Config); err != nil {
					return err
				}
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

			p := poller.NewPoller(rt.executor, token, rt.logger)
			if err := p.Start(ctx, jobs, cmd.NewSourceEventCallback(bus)); err != nil {
				return err
			}

			waitForShutdown(ctx, rt.logger)

			stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer stopCancel()

			return p.Stop(stopCtx)
		},
	}
}
