// Package registry keeps the node factories a process can instantiate.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"
	"sort"
	"strings"
	"sync"

	"github.com/dukex/operion-betterstack/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrNodeNotRegistered is returned when no factory exists for a node type.
	ErrNodeNotRegistered = errors.New("node type not registered")

	// ErrInvalidConfig is returned when a node configuration does not match
	// the schema of its factory.
	ErrInvalidConfig = errors.New("invalid node configuration")
)

// pluginSymbol is the exported symbol a node plugin must provide.
const pluginSymbol = "Node"

type Registry struct {
	logger *slog.Logger

	mu        sync.RWMutex
	factories map[string]protocol.NodeFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		factories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode adds a factory. A factory with the same ID is replaced.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[factory.ID()]; exists {
		r.logger.Warn("Replacing registered node factory", "node_type", factory.ID())
	}

	r.factories[factory.ID()] = factory
}

// GetNode returns the factory registered for a node type.
func (r *Registry) GetNode(nodeType string) (protocol.NodeFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[nodeType]

	return factory, ok
}

// GetAvailableNodes returns every registered factory ordered by ID.
func (r *Registry) GetAvailableNodes() []protocol.NodeFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.NodeFactory, 0, len(r.factories))
	for _, factory := range r.factories {
		factories = append(factories, factory)
	}

	sort.Slice(factories, func(i, j int) bool {
		return factories[i].ID() < factories[j].ID()
	})

	return factories
}

// ValidateConfig checks config against the schema of the node type.
func (r *Registry) ValidateConfig(nodeType string, config map[string]any) error {
	factory, ok := r.GetNode(nodeType)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotRegistered, nodeType)
	}

	if config == nil {
		config = map[string]any{}
	}

	return validateJSONSchema(nodeType, factory.Schema(), config)
}

// CreateNode validates config and creates a node of the given type.
func (r *Registry) CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (protocol.Node, error) {
	factory, ok := r.GetNode(nodeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotRegistered, nodeType)
	}

	if config == nil {
		config = map[string]any{}
	}

	if err := validateJSONSchema(nodeType, factory.Schema(), config); err != nil {
		return nil, err
	}

	node, err := factory.Create(ctx, id, config)
	if err != nil {
		return nil, fmt.Errorf("creating %s node %s: %w", nodeType, id, err)
	}

	return node, nil
}

// LoadNodePlugins opens every .so file under <pluginsPath>/nodes and returns
// the factories they export as the "Node" symbol.
func (r *Registry) LoadNodePlugins(ctx context.Context, pluginsPath string) ([]protocol.NodeFactory, error) {
	return loadPlugin[protocol.NodeFactory](ctx, r.logger, pluginsPath, pluginSymbol)
}

func validateJSONSchema(nodeType string, schema, config map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(config))
	if err != nil {
		return fmt.Errorf("validating %s configuration: %w", nodeType, err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("%w for %s: %s", ErrInvalidConfig, nodeType, strings.Join(messages, "; "))
	}

	return nil
}

func loadPlugin[T any](ctx context.Context, logger *slog.Logger, pluginsPath string, symbolName string) ([]T, error) {
	rootPath := filepath.Join(pluginsPath, strings.ToLower(symbolName)+"s")

	if _, err := os.Stat(rootPath); errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}

	pluginPathList, err := fs.Glob(os.DirFS(rootPath), "*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", rootPath), slog.String("type", symbolName))
	l.InfoContext(ctx, "Loading plugins")

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(filepath.Join(rootPath, p))
		if err != nil {
			return nil, fmt.Errorf("opening plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("looking up %s in plugin %s: %w", symbolName, p, err)
		}

		castV, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("plugin %s: symbol %s has unexpected type %T", p, symbolName, v)
		}

		pluginList = append(pluginList, castV)

		l.InfoContext(ctx, "Loaded node plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
