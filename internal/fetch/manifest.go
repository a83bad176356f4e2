// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Entry records one downloaded document within a period.
type Entry struct {
	Period int    `yaml:"period"`
	Index  int    `yaml:"index"`
	URL    string `yaml:"url"`
}

// Manifest maps downloaded filenames (relative to the protocols directory)
// to their protocol coordinates. It is the handover point between the fetch
// and parse stages: parse walks the manifest, not the directory.
type Manifest map[string]Entry

// manifestPath returns the manifest file location for a period.
func manifestPath(dir string, period int) string {
	return filepath.Join(dir, fmt.Sprintf("period-%d.yaml", period))
}

// LoadManifest reads the period manifest. A missing file yields an empty
// manifest, so the first fetch of a period needs no setup.
func LoadManifest(dir string, period int) (Manifest, error) {
	data, err := os.ReadFile(manifestPath(dir, period))
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("reading period manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing period manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// SaveManifest writes the period manifest, creating the directory if needed.
func SaveManifest(dir string, period int, m Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating protocols directory: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling period manifest: %w", err)
	}
	return os.WriteFile(manifestPath(dir, period), data, 0o644)
}
