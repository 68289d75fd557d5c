package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}

	if cfg.Data.Backend != BackendSnapshot {
		t.Errorf("expected default backend %q, got %q", BackendSnapshot, cfg.Data.Backend)
	}
	if !strings.HasSuffix(cfg.Data.Dir, ".autopredict") {
		t.Errorf("expected default data dir under the home directory, got %q", cfg.Data.Dir)
	}
	if cfg.Data.MaxRecords != 0 {
		t.Errorf("expected trimming disabled by default, got %d", cfg.Data.MaxRecords)
	}
	if cfg.Models.BehaviorMinSamples != 50 || cfg.Models.LoadMinSamples != 100 {
		t.Errorf("unexpected default thresholds: %+v", cfg.Models)
	}
	if cfg.Models.Seed != 42 {
		t.Errorf("expected default seed 42, got %d", cfg.Models.Seed)
	}
	if cfg.Models.AnomalyThreshold != 0.05 {
		t.Errorf("expected default anomaly threshold 0.05, got %v", cfg.Models.AnomalyThreshold)
	}
	if cfg.Monitor.Interval != time.Minute {
		t.Errorf("expected default monitor interval 1m, got %v", cfg.Monitor.Interval)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data:
  dir: /tmp/autopredict-test
  backend: sqlite
  max_records: 5000
models:
  behavior_min_samples: 25
  seed: 7
monitor:
  interval: 30s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.Dir != "/tmp/autopredict-test" {
		t.Errorf("unexpected data dir: %q", cfg.Data.Dir)
	}
	if cfg.Data.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Data.Backend)
	}
	if cfg.Data.MaxRecords != 5000 {
		t.Errorf("expected max_records 5000, got %d", cfg.Data.MaxRecords)
	}
	if cfg.Models.BehaviorMinSamples != 25 {
		t.Errorf("expected behavior_min_samples 25, got %d", cfg.Models.BehaviorMinSamples)
	}
	if cfg.Models.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Models.Seed)
	}
	if cfg.Monitor.Interval != 30*time.Second {
		t.Errorf("expected interval 30s, got %v", cfg.Monitor.Interval)
	}

	// Unset keys keep their defaults.
	if cfg.Models.LoadMinSamples != 100 {
		t.Errorf("expected default load_min_samples 100, got %d", cfg.Models.LoadMinSamples)
	}
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data:\n  backend: redis\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{Data: DataConfig{Dir: "/data"}}

	tests := []struct {
		got  string
		want string
	}{
		{cfg.SnapshotPath(), filepath.Join("/data", "ml_data.json")},
		{cfg.DatabasePath(), filepath.Join("/data", "activity.db")},
		{cfg.BehaviorBundlePath(), filepath.Join("/data", "user_behavior_model.json")},
		{cfg.LoadBundlePath(), filepath.Join("/data", "system_optimizer_model.json")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
