package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	Sources []struct {
		ID         string         `json:"id"`
		ExternalID string         `json:"external_id"`
		JSONSchema map[string]any `json:"json_schema"`
	} `json:"sources"`
}

func write(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "sources.yaml", `
sources:
  - id: incidents
    external_id: 6f1c7e0e-0d5f-4f6b-9a39-4d4b8e0c7a11
    json_schema:
      type: object
      required: [data]
`)

	var doc document
	require.NoError(t, Load(path, &doc))

	require.Len(t, doc.Sources, 1)
	assert.Equal(t, "incidents", doc.Sources[0].ID)
	assert.Equal(t, "6f1c7e0e-0d5f-4f6b-9a39-4d4b8e0c7a11", doc.Sources[0].ExternalID)
	assert.Equal(t, "object", doc.Sources[0].JSONSchema["type"])
	assert.Equal(t, []any{"data"}, doc.Sources[0].JSONSchema["required"])
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "sources.json", `{"sources": [{"id": "monitors"}]}`)

	var doc document
	require.NoError(t, Load(path, &doc))
	assert.Equal(t, "monitors", doc.Sources[0].ID)
}

func TestLoad_Errors(t *testing.T) {
	var doc document

	err := Load(filepath.Join(t.TempDir(), "missing.yml"), &doc)
	require.ErrorContains(t, err, "reading")

	err = Load(write(t, "broken.yml", "sources: [unclosed"), &doc)
	require.ErrorContains(t, err, "parsing")

	err = Load(write(t, "broken.json", "{"), &doc)
	assert.ErrorContains(t, err, "parsing")
}

func TestDecode_NumbersKeepJSONShape(t *testing.T) {
	var dest map[string]any
	require.NoError(t, Decode([]byte("limit: 10\nreturnAll: true\n"), ".yml", &dest))

	assert.InDelta(t, 10, dest["limit"], 0)
	assert.Equal(t, true, dest["returnAll"])
}
