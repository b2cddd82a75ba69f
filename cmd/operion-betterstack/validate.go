package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/operion-betterstack/pkg/sources/poller"
	"github.com/dukex/operion-betterstack/pkg/sources/webhook"
	cli "github.com/urfave/cli/v3"
)

var (
	ErrNothingToValidate = errors.New("nothing to validate: pass --sources and/or --jobs")
	ErrInvalidJobs       = errors.New("invalid poll jobs found")
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate webhook source and poll job files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sources",
				Usage: "Path to a webhook sources file (JSON or YAML)",
			},
			&cli.StringFlag{
				Name:  "jobs",
				Usage: "Path to a poll jobs file (JSON or YAML)",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			sourcesPath := command.String("sources")
			jobsPath := command.String("jobs")

			if sourcesPath == "" && jobsPath == "" {
				return ErrNothingToValidate
			}

			rt, err := newRuntime(ctx, command, "validate")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			w := stdout(command)

			if sourcesPath != "" {
				sources, err := webhook.LoadSources(sourcesPath)
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "Webhook sources: %d valid\n", len(sources))

				for _, source := range sources {
					fmt.Fprintf(w, "  - %s (%s) %s\n", source.ID, source.Event, source.GetWebhookURL())
				}
			}

			if jobsPath == "" {
				return nil
			}

			jobs, err := poller.LoadJobs(jobsPath)
			if err != nil {
				return err
			}

			invalid := 0

			for _, job := range jobs {
				if err := rt.registry.ValidateConfig(job.Node.Type, job.Node.Config); err != nil {
					invalid++

					fmt.Fprintf(w, "  ✗ %s: %v\n", job.ID, err)

					continue
				}

				fmt.Fprintf(w, "  ✓ %s (%s, %s)\n", job.ID, job.Node.Type, job.CronExpression)
			}

			fmt.Fprintf(w, "Poll jobs: %d valid, %d invalid\n", len(jobs)-invalid, invalid)

			if invalid > 0 {
				return fmt.Errorf("%w: %d", ErrInvalidJobs, invalid)
			}

			return nil
		},
	}
}
