package cmd

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/registry"
)

func registerNodePlugins(ctx context.Context, reg *registry.Registry, pluginsPath string) error {
	if pluginsPath == "" {
		return nil
	}

	nodePlugins, err := reg.LoadNodePlugins(ctx, pluginsPath)
	if err != nil {
		return err
	}

	for _, plugin := range nodePlugins {
		reg.RegisterNode(plugin)
	}

	return nil
}

// NewRegistry registers the built-in Better Stack nodes, then the node
// plugins found under pluginsPath.
func NewRegistry(ctx context.Context, log *slog.Logger, pluginsPath string, opts ...betterstack.Option) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultNodes(opts...)

	if err := registerNodePlugins(ctx, reg, pluginsPath); err != nil {
		return nil, err
	}

	return reg, nil
}
