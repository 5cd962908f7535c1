// Package config loads opibatch configuration from an optional YAML file,
// merging file values over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ServiceConfig describes the payment-order processing backend.
type ServiceConfig struct {
	// BaseURL is the root of the backend, e.g. "http://localhost:8000".
	BaseURL string `yaml:"base_url"`

	// Timeout is the maximum duration for one submission round-trip.
	Timeout time.Duration `yaml:"timeout"`
}

// Config represents opibatch configuration options.
type Config struct {
	// Service describes the processing backend.
	Service ServiceConfig `yaml:"service"`

	// DocumentExtension is the recognized document suffix, dot included.
	DocumentExtension string `yaml:"document_extension"`

	// TagPrefix is the literal prefix rendered onto extracted identifiers.
	TagPrefix string `yaml:"tag_prefix"`

	// OutputDir is where downloaded results are written.
	OutputDir string `yaml:"output_dir"`

	// HistoryPath is the SQLite submission-history database location.
	HistoryPath string `yaml:"history_path"`

	// TraversalBatchSize is how many directory children are read per call
	// while expanding a dropped folder.
	TraversalBatchSize int `yaml:"traversal_batch_size"`

	// TraversalMaxBatches caps enumeration calls per directory, guarding
	// against a listing that never reports completion.
	TraversalMaxBatches int `yaml:"traversal_max_batches"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 5 * time.Minute,
		},
		DocumentExtension:   ".pdf",
		TagPrefix:           "JC-PIC-",
		OutputDir:           ".",
		HistoryPath:         filepath.Join(".opibatch", "history.db"),
		TraversalBatchSize:  64,
		TraversalMaxBatches: 4096,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations arrive as strings ("90s", "5m"), so unmarshal into a
	// shadow struct first.
	type yamlService struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	}
	type yamlConfig struct {
		Service             yamlService `yaml:"service"`
		DocumentExtension   string      `yaml:"document_extension"`
		TagPrefix           string      `yaml:"tag_prefix"`
		OutputDir           string      `yaml:"output_dir"`
		HistoryPath         string      `yaml:"history_path"`
		TraversalBatchSize  int         `yaml:"traversal_batch_size"`
		TraversalMaxBatches int         `yaml:"traversal_max_batches"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Service.BaseURL != "" {
		cfg.Service.BaseURL = yamlCfg.Service.BaseURL
	}
	if yamlCfg.Service.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Service.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Service.Timeout, err)
		}
		cfg.Service.Timeout = timeout
	}
	if yamlCfg.DocumentExtension != "" {
		cfg.DocumentExtension = yamlCfg.DocumentExtension
	}
	if yamlCfg.TagPrefix != "" {
		cfg.TagPrefix = yamlCfg.TagPrefix
	}
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}
	if yamlCfg.HistoryPath != "" {
		cfg.HistoryPath = yamlCfg.HistoryPath
	}
	if yamlCfg.TraversalBatchSize > 0 {
		cfg.TraversalBatchSize = yamlCfg.TraversalBatchSize
	}
	if yamlCfg.TraversalMaxBatches > 0 {
		cfg.TraversalMaxBatches = yamlCfg.TraversalMaxBatches
	}

	return cfg, nil
}
