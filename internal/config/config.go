// Package config loads the compiler's run configuration: target host
// language and the ordered input/output tab lists, from a TOML file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Target enumerates the two generated-code backends: go is statically
// typed, python is dynamically typed.
type Target string

const (
	TargetGo     Target = "go"
	TargetPython Target = "python"
)

func (t Target) Valid() bool {
	return t == TargetGo || t == TargetPython
}

// Config is the record consumed by the pipeline driver.
type Config struct {
	Target     Target   `toml:"target"`
	InputTabs  []string `toml:"input_tabs"`
	OutputTabs []string `toml:"output_tabs"`
	Workbook   string   `toml:"workbook"`
}

// Load parses a TOML configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration is complete enough to run the pipeline.
func (c *Config) Validate() error {
	if !c.Target.Valid() {
		return fmt.Errorf("config: unknown target %q", c.Target)
	}
	if len(c.OutputTabs) == 0 {
		return fmt.Errorf("config: output_tabs must not be empty")
	}
	return nil
}
