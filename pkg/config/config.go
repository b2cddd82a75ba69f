// Package config loads the JSON and YAML files that declare webhook sources
// and poll jobs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path into dest. Files ending in .yaml or .yml are parsed as YAML
// and then decoded through dest's json tags; anything else is parsed as JSON.
func Load(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := Decode(data, filepath.Ext(path), dest); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// Decode parses data in the format named by a file extension.
func Decode(data []byte, ext string, dest any) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var document any
		if err := yaml.Unmarshal(data, &document); err != nil {
			return err
		}

		raw, err := json.Marshal(document)
		if err != nil {
			return err
		}

		return json.Unmarshal(raw, dest)
	default:
		return json.Unmarshal(data, dest)
	}
}
