/*
Package config loads engine configuration from an optional YAML file and
the environment.

All settings have working defaults; a missing config file is not an
error, so the CLI runs out of the box with data under ~/.autopredict.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	BackendSnapshot = "snapshot"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Models  ModelsConfig  `mapstructure:"models"`
	Monitor MonitorConfig `mapstructure:"monitor"`
}

type DataConfig struct {
	// Dir holds the snapshot, database and model bundles.
	Dir string `mapstructure:"dir"`

	// Backend selects the store implementation: "snapshot" rewrites the
	// JSON file per append, "sqlite" appends rows and exports the
	// snapshot on demand.
	Backend string `mapstructure:"backend"`

	// MaxRecords bounds each history; 0 disables trimming.
	MaxRecords int `mapstructure:"max_records"`
}

type ModelsConfig struct {
	BehaviorMinSamples int     `mapstructure:"behavior_min_samples"`
	LoadMinSamples     int     `mapstructure:"load_min_samples"`
	Seed               int64   `mapstructure:"seed"`
	AnomalyThreshold   float64 `mapstructure:"anomaly_threshold"`
}

type MonitorConfig struct {
	// Interval between background metric samples.
	Interval time.Duration `mapstructure:"interval"`
}

// LoadConfig reads configuration from the given file path. An empty path
// loads defaults plus environment overrides only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	// Set default values
	v.SetDefault("data.dir", filepath.Join(home, ".autopredict"))
	v.SetDefault("data.backend", BackendSnapshot)
	v.SetDefault("data.max_records", 0)
	v.SetDefault("models.behavior_min_samples", 50)
	v.SetDefault("models.load_min_samples", 100)
	v.SetDefault("models.seed", 42)
	v.SetDefault("models.anomaly_threshold", 0.05)
	v.SetDefault("monitor.interval", time.Minute)

	// Enable environment variable support
	v.SetEnvPrefix("autopredict")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Data.Backend != BackendSnapshot && cfg.Data.Backend != BackendSQLite {
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)",
			cfg.Data.Backend, BackendSnapshot, BackendSQLite)
	}

	return &cfg, nil
}

// SnapshotPath is the JSON activity snapshot file.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.Data.Dir, "ml_data.json")
}

// DatabasePath is the SQLite append log.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, "activity.db")
}

// BehaviorBundlePath is the persisted behavior-model bundle.
func (c *Config) BehaviorBundlePath() string {
	return filepath.Join(c.Data.Dir, "user_behavior_model.json")
}

// LoadBundlePath is the persisted load-model bundle.
func (c *Config) LoadBundlePath() string {
	return filepath.Join(c.Data.Dir, "system_optimizer_model.json")
}
