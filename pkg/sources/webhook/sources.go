package webhook

import (
	"fmt"

	"github.com/dukex/operion-betterstack/pkg/config"
	"github.com/dukex/operion-betterstack/pkg/sources/webhook/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SourceConfig declares one webhook source in a sources file.
type SourceConfig struct {
	ID string `json:"id" validate:"required"`

	// ExternalID pins the URL UUID across restarts. A random one is used
	// when empty.
	ExternalID string `json:"external_id" validate:"omitempty,uuid"`

	Event      string         `json:"event" validate:"omitempty,oneof=* incident.created incident.acknowledged incident.resolved monitor.up monitor.down"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

// SourcesFile is the document read by LoadSources.
type SourcesFile struct {
	Sources []SourceConfig `json:"sources" validate:"required,min=1,dive"`
}

// LoadSources reads and validates a JSON or YAML sources file.
func LoadSources(path string) ([]*models.WebhookSource, error) {
	var file SourcesFile
	if err := config.Load(path, &file); err != nil {
		return nil, fmt.Errorf("loading webhook sources: %w", err)
	}

	return BuildSources(file)
}

// BuildSources validates a sources document and builds its sources.
func BuildSources(file SourcesFile) ([]*models.WebhookSource, error) {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidWebhookSource, err)
	}

	sources := make([]*models.WebhookSource, 0, len(file.Sources))
	seen := make(map[string]bool, len(file.Sources))

	for _, config := range file.Sources {
		if seen[config.ID] {
			return nil, fmt.Errorf("%w: duplicate source id %q", models.ErrInvalidWebhookSource, config.ID)
		}

		seen[config.ID] = true

		configuration := map[string]any{"event": config.Event}
		if len(config.JSONSchema) > 0 {
			configuration["json_schema"] = config.JSONSchema
		}

		source, err := models.NewWebhookSource(config.ID, configuration)
		if err != nil {
			return nil, err
		}

		if config.ExternalID != "" {
			source.ExternalID = uuid.MustParse(config.ExternalID)
		}

		sources = append(sources, source)
	}

	return sources, nil
}
