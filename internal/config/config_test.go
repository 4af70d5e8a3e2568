package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network.UserAgent == "" || cfg.Cache.MaxAgeDays != 7 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFromCorruptFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("corrupt config should not error: %v", err)
	}
	if cfg.Cache.MaxSizeMB != 100 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"network": {"request_timeout_secs": 10}, "cache": {"max_size_mb": 250}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.RequestTimeout())
	}
	if cfg.Cache.MaxSizeMB != 250 {
		t.Errorf("max size = %d", cfg.Cache.MaxSizeMB)
	}
	// Untouched sections keep defaults
	if cfg.Cache.MaxAgeDays != 7 {
		t.Errorf("max age = %d", cfg.Cache.MaxAgeDays)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadFromLogLevelOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"log_level": "warn"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("zero timeout should fall back, got %v", cfg.RequestTimeout())
	}
	if cfg.PerHostInterval() != time.Second {
		t.Errorf("zero interval should fall back, got %v", cfg.PerHostInterval())
	}
}

func TestDirOverride(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/elsewhere"}
	if cfg.Dir() != "/tmp/elsewhere" {
		t.Errorf("Dir = %q", cfg.Dir())
	}
}
