package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level churchregister.yaml configuration.
type Config struct {
	Parish    ParishConfig    `yaml:"parish"`
	Database  DatabaseConfig  `yaml:"database"`
	Statement StatementConfig `yaml:"statement"`
	Fiscal    FiscalConfig    `yaml:"fiscal"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ParishConfig identifies the parish.
type ParishConfig struct {
	Name string `yaml:"name"`
}

// DatabaseConfig locates the contribution database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// StatementConfig controls bank statement imports.
type StatementConfig struct {
	Format string `yaml:"format"`
}

// FiscalConfig defines the giving-year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a churchregister.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new parish.
func Default(parishName string) *Config {
	return &Config{
		Parish: ParishConfig{
			Name: parishName,
		},
		Database: DatabaseConfig{
			Path: "contributions.db",
		},
		Statement: StatementConfig{
			Format: "standard",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
