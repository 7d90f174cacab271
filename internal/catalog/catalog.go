// Package catalog lists the predefined element types a technician picks
// from. Anything outside the catalogue is a custom element.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog is an ordered, duplicate-free list of element types.
type Catalog struct {
	Elements []string `yaml:"elements" json:"elements"`
	index    map[string]bool
}

// Default returns the built-in catalogue.
func Default() *Catalog {
	c, err := parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in catalogue: %v", err))
	}
	return c
}

// Load reads a catalogue from a YAML file of the form `elements: [...]`.
// An empty path returns the built-in catalogue.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	var raw Catalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	c := &Catalog{index: make(map[string]bool, len(raw.Elements))}
	for _, e := range raw.Elements {
		e = strings.TrimSpace(e)
		if e == "" || c.index[e] {
			continue
		}
		c.index[e] = true
		c.Elements = append(c.Elements, e)
	}
	if len(c.Elements) == 0 {
		return nil, fmt.Errorf("no elements defined")
	}
	return c, nil
}

// Contains reports whether name is a predefined element type.
func (c *Catalog) Contains(name string) bool {
	return c.index[strings.TrimSpace(name)]
}
