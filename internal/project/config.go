package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/templar-lang/templar/internal/config"
	"github.com/templar-lang/templar/internal/transform"
)

// Config is the project-level configuration loaded from .templar.yml.
// Everything is optional; the zero value transforms with defaults.
type Config struct {
	// Globals are identifiers treated as in scope in every template,
	// typically app-wide helpers registered with the runtime.
	Globals []string `yaml:"globals"`

	// TypeParams and ContextType seed the frame when a template has no
	// per-file override.
	TypeParams  string `yaml:"typeParams"`
	ContextType string `yaml:"contextType"`

	// Preamble lines are injected before every template body.
	Preamble []string `yaml:"preamble"`

	// Include holds glob patterns read from the config file. `templar
	// check` does not consult them: a directory argument visits every file
	// with a recognized template extension.
	Include []string `yaml:"include"`
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Discover walks up from dir looking for the nearest config file. It
// returns a zero config (and empty path) when none exists.
func Discover(dir string) (*Config, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		candidate := filepath.Join(abs, config.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			if err != nil {
				return nil, "", err
			}
			return cfg, candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return &Config{}, "", nil
		}
		abs = parent
	}
}

// TransformOptions maps the project config onto per-call options.
func (c *Config) TransformOptions() transform.Options {
	return transform.Options{
		TypeParams:         c.TypeParams,
		ContextType:        c.ContextType,
		Preamble:           append([]string(nil), c.Preamble...),
		IdentifiersInScope: append([]string(nil), c.Globals...),
	}
}
