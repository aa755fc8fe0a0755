// Package config loads run configuration for the renaming tool from a TOML
// file: which rule to apply, extra reserved words, and targets to skip.
package config

import (
	"fmt"
	"os"

	mapset "github.com/deckarep/golang-set"
	"github.com/naoina/toml"

	"github.com/tdb-alcorn/firrtl/internal/rename"
	"github.com/tdb-alcorn/firrtl/internal/target"
)

// Config describes one renaming run.
type Config struct {
	// Rule selects the renaming rule: prefix, lowercase, uppercase or
	// keywords.
	Rule string
	// Prefix is the prefix for the prefix rule.
	Prefix string
	// Keywords adds reserved words to the keyword rule's built-in Verilog
	// set.
	Keywords []string
	// Skip lists targets to leave untouched, in canonical target syntax
	// (e.g. "~Top|Queue>head"). Non-local targets fail at load time.
	Skip []string
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := cfg.SkipSet(); err != nil {
		return nil, err
	}
	if _, err := cfg.BuildRule(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BuildRule constructs the configured rule.
func (c *Config) BuildRule() (rename.Rule, error) {
	switch c.Rule {
	case "prefix":
		if c.Prefix == "" {
			return nil, fmt.Errorf("config: prefix rule requires a non-empty prefix")
		}
		return rename.Prefix(c.Prefix), nil
	case "lowercase":
		return rename.Lowercase(), nil
	case "uppercase":
		return rename.Uppercase(), nil
	case "keywords", "":
		keywords := rename.VerilogKeywords()
		for _, kw := range c.Keywords {
			keywords.Add(kw)
		}
		return rename.AvoidKeywords(keywords), nil
	default:
		return nil, fmt.Errorf("config: unknown rule %q", c.Rule)
	}
}

// KeywordSet returns the effective reserved-word set for the keyword rule.
func (c *Config) KeywordSet() mapset.Set {
	keywords := rename.VerilogKeywords()
	for _, kw := range c.Keywords {
		keywords.Add(kw)
	}
	return keywords
}

// SkipSet parses and validates the configured skip targets.
func (c *Config) SkipSet() (*rename.SkipSet, error) {
	targets := make([]target.Target, 0, len(c.Skip))
	for _, s := range c.Skip {
		t, err := target.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("config: skip entry: %w", err)
		}
		targets = append(targets, t)
	}
	return rename.NewSkipSet(targets...)
}
