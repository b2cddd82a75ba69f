package webhook

import (
	"os"
	"path/filepath"
	"testing"

	bsmodels "github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/sources/webhook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"sources": [
			{"id": "incidents", "event": "incident.created", "external_id": "0b7e1c52-9f6d-4c1e-8a57-3b2f7f0d9a11"},
			{"id": "everything", "json_schema": {"type": "object"}}
		]
	}`), 0o600))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, bsmodels.EventIncidentCreated, sources[0].Event)
	assert.Equal(t, "0b7e1c52-9f6d-4c1e-8a57-3b2f7f0d9a11", sources[0].ExternalID.String())
	assert.Equal(t, bsmodels.EventAll, sources[1].Event)
	assert.True(t, sources[1].HasJSONSchema())
}

func TestBuildSources_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file SourcesFile
	}{
		{"no sources", SourcesFile{}},
		{"missing id", SourcesFile{Sources: []SourceConfig{{Event: "*"}}}},
		{"unknown event", SourcesFile{Sources: []SourceConfig{{ID: "a", Event: "incident.deleted"}}}},
		{"bad uuid", SourcesFile{Sources: []SourceConfig{{ID: "a", ExternalID: "not-a-uuid"}}}},
		{"duplicate id", SourcesFile{Sources: []SourceConfig{{ID: "a"}, {ID: "a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSources(tt.file)
			assert.ErrorIs(t, err, models.ErrInvalidWebhookSource)
		})
	}
}

func TestLoadSources_MissingFile(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	b, err := models.NewWebhookSource("b", nil)
	require.NoError(t, err)
	a, err := models.NewWebhookSource("a", nil)
	require.NoError(t, err)

	require.NoError(t, store.SaveWebhookSource(b))
	require.NoError(t, store.SaveWebhookSource(a))

	found, err := store.WebhookSourceByExternalID(a.ExternalID.String())
	require.NoError(t, err)
	assert.Same(t, a, found)

	found, err = store.WebhookSourceBySourceID("b")
	require.NoError(t, err)
	assert.Same(t, b, found)

	all, err := store.WebhookSources()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)

	require.NoError(t, store.DeleteWebhookSource("a"))

	found, err = store.WebhookSourceByExternalID(a.ExternalID.String())
	require.NoError(t, err)
	assert.Nil(t, found)

	invalid := &models.WebhookSource{ID: "c"}
	assert.ErrorIs(t, store.SaveWebhookSource(invalid), models.ErrInvalidWebhookSource)
}
