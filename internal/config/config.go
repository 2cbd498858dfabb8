package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default backing file names, relative to the config directory.
const (
	DefaultJSONPath = "users.json"
	DefaultWordPath = "users.docx"
)

// Config holds settings loaded from userstore.yml, overridden by the
// environment.
type Config struct {
	JSONPath string `yaml:"jsonPath,omitempty" env:"USERSTORE_JSON_PATH"`
	WordPath string `yaml:"wordPath,omitempty" env:"USERSTORE_WORD_PATH"`
	Verbose  bool   `yaml:"verbose,omitempty" env:"USERSTORE_VERBOSE"`
}

// Load reads userstore.yml or userstore.yaml from dir, applies environment
// overrides, and fills defaults. A missing config file is not an error.
// Relative paths are resolved against dir.
func Load(dir string) (*Config, error) {
	var cfg Config
	for _, name := range []string{"userstore.yml", "userstore.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		break
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JSONPath == "" {
		cfg.JSONPath = DefaultJSONPath
	}
	if cfg.WordPath == "" {
		cfg.WordPath = DefaultWordPath
	}
	cfg.JSONPath = resolve(dir, cfg.JSONPath)
	cfg.WordPath = resolve(dir, cfg.WordPath)
	return &cfg, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
