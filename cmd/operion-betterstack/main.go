// Package main provides the operion-betterstack command line.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	if err := NewRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:                  "operion-betterstack",
		Usage:                 "Run Better Stack Uptime nodes, webhook sources and pollers",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "plugins-path",
				Usage:   "Path to the directory containing node plugins",
				Value:   "",
				Sources: cli.EnvVars("PLUGINS_PATH"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Better Stack Uptime API host; the /api/v2 and /api/v3 paths are appended",
				Sources: cli.EnvVars("BETTERSTACK_API_URL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP/HTTP (configured by the OTEL_EXPORTER_OTLP_* variables)",
				Sources: cli.EnvVars("OTEL_TRACING_ENABLED"),
			},
		},
		Commands: []*cli.Command{
			NewExecCommand(),
			NewNodesCommand(),
			NewValidateCommand(),
			NewAPICommand(),
			NewWebhookCommand(),
			NewPollCommand(),
			NewEventsCommand(),
		},
	}
}
