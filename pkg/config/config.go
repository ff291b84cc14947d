// Package config loads plug-in configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete plug-in configuration.
type Config struct {
	Plugin    PluginConfig    `yaml:"plugin"`
	Logging   LoggingConfig   `yaml:"logging"`
	TaskQueue TaskQueueConfig `yaml:"task_queue"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// PluginConfig identifies the plug-in in logs and crash reports.
type PluginConfig struct {
	Name         string `yaml:"name" validate:"required"`
	Version      string `yaml:"version"`
	SupportEmail string `yaml:"support_email" validate:"omitempty,email"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error off"`
	Format string `yaml:"format" validate:"oneof=console json"`
	// File is appended to when set; otherwise logs go to stderr.
	File string `yaml:"file"`
}

// TaskQueueConfig sizes the main-thread task queue.
type TaskQueueConfig struct {
	Capacity int `yaml:"capacity" validate:"min=1,max=1000000"`
}

// MetricsConfig controls prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Plugin: PluginConfig{
			Name: "reapergo",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TaskQueue: TaskQueueConfig{
			Capacity: 1000,
		},
		Metrics: MetricsConfig{
			Namespace: "reapergo",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}
