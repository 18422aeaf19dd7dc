// Package config loads the service configuration from YAML with
// environment and flag overrides layered on top by the CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "INSPECTION_ANALYZER_CONFIG"

// Config holds the settings shared across commands.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the REST listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig describes the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "inspections.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file at path, or at $INSPECTION_ANALYZER_CONFIG
// when path is empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
