package features

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the layout of a features override file.
type File struct {
	Features []Feature `yaml:"features"`
}

// LoadFile parses feature definitions from a YAML file.
func LoadFile(path string) ([]Feature, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read features file: %w", err)
	}
	return Parse(content)
}

// Parse decodes feature definitions from YAML.
func Parse(content []byte) ([]Feature, error) {
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse features file: %w", err)
	}
	return file.Features, nil
}

// Load returns the built-in catalog merged with the definitions in path.
// An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	catalog := Builtin()
	if strings.TrimSpace(path) == "" {
		return catalog, nil
	}

	overrides, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(overrides)
}
