package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level file layout read by LoadConfig.
type Config struct {
	Entity  EntityConfig  `json:"entity" yaml:"entity"`
	Coil    CoilConfig    `json:"coil" yaml:"coil"`
	Service ServiceConfig `json:"service" yaml:"service"`
}

// DefaultConfig returns the defaults of every section.
func DefaultConfig() Config {
	return Config{
		Entity:  DefaultEntityConfig(),
		Coil:    DefaultCoilConfig(),
		Service: DefaultServiceConfig(),
	}
}

// Merge overlays each section of source onto c.
func (c *Config) Merge(source *Config) {
	c.Entity.Merge(&source.Entity)
	c.Coil.Merge(&source.Coil)
	c.Service.Merge(&source.Service)
}

// Validate checks the coil and service sections.
func (c *Config) Validate() error {
	if err := c.Coil.Validate(); err != nil {
		return err
	}
	return c.Service.Validate()
}

// LoadConfig reads a JSON or YAML file, merges it over DefaultConfig and
// validates the result.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
