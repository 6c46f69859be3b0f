package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "lexibot/core/config"
	coredatabase "lexibot/core/database"
	"lexibot/lookup"
)

// ReviewConfig tunes review session behaviour.
type ReviewConfig struct {
	// RefreshQueue switches the session queue from a start-of-review
	// snapshot to a reload after every mark.
	RefreshQueue bool `yaml:"refresh_queue" envconfig:"REVIEW_REFRESH_QUEUE"`
}

// Config aggregates core bot settings with the vocabulary-specific ones.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Lookup   lookup.Config       `yaml:"lookup"`
	Review   ReviewConfig        `yaml:"review"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := coredatabase.Normalize(&cfg.Database); err != nil {
		return nil, err
	}
	lookup.Normalize(&cfg.Lookup)
	return &cfg, nil
}
