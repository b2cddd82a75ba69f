package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/workflow"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

var ErrMissingAPIToken = errors.New("a Better Stack API token is required (--api-token or BETTERSTACK_API_TOKEN)")

func NewExecCommand() *cli.Command {
	return &cli.Command{
		Name:    "exec",
		Aliases: []string{"x"},
		Usage:   "Run one node over input items and print the result as JSON",
		Flags: []cli.Flag{
			apiTokenFlag(),
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Usage:    "Node type, e.g. monitor or betterstack:incident",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Node configuration as JSON, or @path to read it from a file",
				Value:   "{}",
			},
			&cli.StringFlag{
				Name:  "items",
				Usage: "Input items as a JSON array, or @path to read them from a file",
			},
			&cli.StringFlag{
				Name:  "node-id",
				Usage: "Node ID reported in errors (random when empty)",
			},
			&cli.BoolFlag{
				Name:  "continue-on-fail",
				Usage: "Emit failing items as {error} items instead of aborting",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			token := command.String("api-token")
			if token == "" {
				return ErrMissingAPIToken
			}

			var config map[string]any
			if err := decodeArgument(command.String("config"), &config); err != nil {
				return fmt.Errorf("invalid --config: %w", err)
			}

			var items []models.Item
			if raw := command.String("items"); raw != "" {
				if err := decodeArgument(raw, &items); err != nil {
					return fmt.Errorf("invalid --items: %w", err)
				}
			}

			rt, err := newRuntime(ctx, command, "exec")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			node := &models.WorkflowNode{
				ID:             command.String("node-id"),
				Type:           qualifiedNodeType(command.String("type")),
				Config:         config,
				ContinueOnFail: command.Bool("continue-on-fail"),
			}

			if node.ID == "" {
				node.ID = uuid.New().String()
			}

			result, execErr := rt.executor.Execute(ctx, node, items,
				workflow.WithAPIToken(token),
				workflow.WithLogger(rt.logger),
			)

			encoder := json.NewEncoder(stdout(command))
			encoder.SetIndent("", "  ")

			if err := encoder.Encode(result); err != nil {
				return err
			}

			return execErr
		},
	}
}

// decodeArgument decodes a JSON flag value. A leading @ names a file.
func decodeArgument(value string, dest any) error {
	raw := []byte(value)

	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		raw = data
	}

	return json.Unmarshal(raw, dest)
}

func qualifiedNodeType(nodeType string) string {
	if strings.Contains(nodeType, ":") {
		return nodeType
	}

	return "betterstack:" + nodeType
}
