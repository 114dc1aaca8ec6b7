package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full immutable configuration tree for a photosort
// invocation. Each stage receives only the sub-struct it needs.
type Config struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Scanner  ScannerConfig  `mapstructure:"scanner"  yaml:"scanner"`
	PathDate PathDateConfig `mapstructure:"path_date" yaml:"path_date"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	Planner  PlannerConfig  `mapstructure:"planner"  yaml:"planner"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// Load reads the fully-merged viper configuration (defaults, config file,
// env vars, flags) into a Config value.
func Load() (*Config, error) {
	cfg := &Config{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
