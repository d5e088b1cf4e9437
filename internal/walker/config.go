package walker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls one conversion. It is passed down explicitly through
// the traversal; there is no package-level state.
type Config struct {
	// MaxRows budgets the first dimension of previews (and the element
	// count for rank > 2). Zero means no limit, which is the one way a
	// caller can force a full dataset into memory; it is never the
	// default.
	MaxRows int `yaml:"max_rows"`
	// MaxCols budgets the second dimension. Zero means no limit.
	MaxCols int `yaml:"max_cols"`
	// Strategy is one of first, uniform, edges.
	Strategy string `yaml:"sampling_strategy"`

	IncludePreview bool `yaml:"include_data_preview"`
	IncludeStats   bool `yaml:"include_stats"`

	// BaseLevel is the heading level of depth-0 nodes.
	BaseLevel int `yaml:"base_level"`

	// Filter restricts the report to nodes whose path matches the
	// pattern (or live under a matching group), e.g. "/data/*".
	Filter string `yaml:"filter"`
	// Exclude skips the named paths and everything beneath them.
	Exclude []string `yaml:"exclude"`

	// TOC prepends a table of contents built from the headings.
	TOC bool `yaml:"toc"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		MaxRows:        10,
		MaxCols:        10,
		Strategy:       "first",
		IncludePreview: true,
		IncludeStats:   true,
		BaseLevel:      2,
		TOC:            true,
	}
}

// Load reads a YAML config file over the defaults, so absent keys keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
