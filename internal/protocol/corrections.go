// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	_ "embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed corrections.yaml
var correctionsYAML []byte

// correction rewrites one exact literal prefix.
type correction struct {
	Prefix  string `yaml:"prefix"`
	Replace string `yaml:"replace"`
}

// corrections is the catalogue in declaration order. Loaded once; read-only
// afterwards, so concurrent document parses can share it.
var corrections = mustLoadCorrections(correctionsYAML)

func mustLoadCorrections(data []byte) []correction {
	var list []correction
	if err := yaml.Unmarshal(data, &list); err != nil {
		panic(fmt.Sprintf("protocol: corrections.yaml: %v", err))
	}
	for i, c := range list {
		if c.Prefix == "" {
			panic(fmt.Sprintf("protocol: corrections.yaml entry %d has empty prefix", i))
		}
	}
	return list
}

// ApplyCorrections rewrites catalogued bad prefixes in paragraph text.
// Entries apply in catalogue order and a rewritten prefix is eligible for
// later entries. Text matching no entry passes through unchanged.
func ApplyCorrections(text string) string {
	for _, c := range corrections {
		if strings.HasPrefix(text, c.Prefix) {
			text = c.Replace + text[len(c.Prefix):]
		}
	}
	return text
}
