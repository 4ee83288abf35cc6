// Package config describes an aggregate dataset in YAML and opens it.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is the YAML description of an aggregate dataset
type Config struct {
	Sources []Source `yaml:"sources"`
	Default Default  `yaml:"default"`
	Named   []string `yaml:"named,omitempty"`
	Options Options  `yaml:"options"`
}

// Source is one badger directory
type Source struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	ReadOnly bool   `yaml:"read_only,omitempty"`
	InMemory bool   `yaml:"in_memory,omitempty"`
}

// Default selects the graphs composing the default graph. Merge unions
// the default graph of every source; Graphs names graphs to union instead.
type Default struct {
	Merge  bool     `yaml:"merge,omitempty"`
	Graphs []string `yaml:"graphs,omitempty"`
}

// Options mirror the dataset's feature switches
type Options struct {
	GraphName bool  `yaml:"graph_name,omitempty"`
	Validity  *bool `yaml:"validity,omitempty"`
}

// ValidityEnabled defaults to true when unset
func (o Options) ValidityEnabled() bool {
	return o.Validity == nil || *o.Validity
}

// Parse decodes a YAML document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Load downloads and parses the config at location, which may be a local
// path or any URL afs supports. Relative source paths in a local config
// are resolved against the config's directory.
func Load(ctx context.Context, location string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", location, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	if !strings.Contains(location, "://") {
		cfg.resolvePaths(filepath.Dir(location))
	}
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.InMemory || src.Path == "" || filepath.IsAbs(src.Path) {
			continue
		}
		src.Path = filepath.Join(base, src.Path)
	}
}

// Validate checks the config before any source is opened
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Path == "" && !src.InMemory {
			return fmt.Errorf("source %d: path is required", i)
		}
		if src.Name == "" {
			continue
		}
		if seen[src.Name] {
			return fmt.Errorf("source %d: duplicate name %q", i, src.Name)
		}
		seen[src.Name] = true
	}
	if c.Default.Merge && len(c.Default.Graphs) > 0 {
		return fmt.Errorf("default: merge cannot be combined with graphs")
	}
	return nil
}

// Marshal encodes the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
