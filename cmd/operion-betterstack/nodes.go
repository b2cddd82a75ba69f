package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/protocol"
	cli "github.com/urfave/cli/v3"
)

func NewNodesCommand() *cli.Command {
	return &cli.Command{
		Name:    "nodes",
		Aliases: []string{"n"},
		Usage:   "List the registered node types and their operations",
		Action: func(ctx context.Context, command *cli.Command) error {
			rt, err := newRuntime(ctx, command, "nodes")
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			w := stdout(command)

			for _, factory := range rt.registry.GetAvailableNodes() {
				fmt.Fprintf(w, "%s\t%s\n", factory.ID(), factory.Name())

				if provider, ok := factory.(protocol.OperationProvider); ok {
					fmt.Fprintf(w, "\toperations: %s\n", strings.Join(provider.Operations(), ", "))
				}
			}

			return nil
		},
	}
}
