// Package config loads the yaml run configuration for the graphsurge CLI.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/logger"
)

// GraphConfig points at the base graph's edge list.
type GraphConfig struct {
	Path          string   `yaml:"path"`
	Separator     string   `yaml:"separator,omitempty"`
	CommentChar   string   `yaml:"comment_char,omitempty"`
	PropertyNames []string `yaml:"property_names,omitempty"`
}

// CubeConfig describes an on-disk cube to load.
type CubeConfig struct {
	Name        string `yaml:"name"`
	Dir         string `yaml:"dir"`
	M           int    `yaml:"m"`
	N           int    `yaml:"n"`
	Prefix      string `yaml:"prefix,omitempty"`
	Separator   string `yaml:"separator,omitempty"`
	CommentChar string `yaml:"comment_char,omitempty"`
	WithFull    bool   `yaml:"with_full,omitempty"`
}

// RunConfig describes one computation to execute.
type RunConfig struct {
	Computation string         `yaml:"computation"`
	Cube        string         `yaml:"cube"`
	Mode        string         `yaml:"mode,omitempty"` // basic, one-stage, two-stage, individual, adaptive, compare
	Materialize string         `yaml:"materialize,omitempty"`
	SaveTo      string         `yaml:"save_to,omitempty"`
	Properties  map[string]any `yaml:"properties,omitempty"`

	BatchSize      int     `yaml:"batch_size,omitempty"`
	CompMultiplier float64 `yaml:"comp_multiplier,omitempty"`
	DiffMultiplier float64 `yaml:"diff_multiplier,omitempty"`
	Limit          int     `yaml:"limit,omitempty"`
	UseLR          *bool   `yaml:"use_lr,omitempty"`
	Splits         []int   `yaml:"splits,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Threads int           `yaml:"threads,omitempty"`
	Hosts   []string      `yaml:"hosts,omitempty"`
	Logging logger.Config `yaml:"logging,omitempty"`
	Graph   *GraphConfig  `yaml:"graph,omitempty"`
	Cubes   []CubeConfig  `yaml:"cubes,omitempty"`
	Runs    []RunConfig   `yaml:"runs,omitempty"`
}

// Load reads and parses a yaml config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gserror.IOFailure(err, "open file for reading", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, gserror.Wrap(gserror.KindParsing, err, "could not parse config '%s'", path)
	}
	return &cfg, nil
}
