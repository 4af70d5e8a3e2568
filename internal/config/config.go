package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	Network NetworkConfig `json:"network"`
	Cache   CacheConfig   `json:"cache"`

	// DataDir overrides the default ~/.chandesk data directory
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel sets the file log verbosity: debug, info, warn or error
	LogLevel string `json:"log_level"`
}

// NetworkConfig holds HTTP client settings shared by all providers
type NetworkConfig struct {
	UserAgent            string `json:"user_agent"`
	RequestTimeoutSecs   int    `json:"request_timeout_secs"`
	PerHostIntervalMilli int    `json:"per_host_interval_ms"`
}

// CacheConfig holds thread cache policy defaults
type CacheConfig struct {
	// FreshSecs is how long a cached thread is served without refetching
	FreshSecs int `json:"fresh_secs"`
	// MaxAgeDays and MaxSizeMB drive the two cleanup passes
	MaxAgeDays int `json:"max_age_days"`
	MaxSizeMB  int `json:"max_size_mb"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			UserAgent:            "ChanDesk/0.1.0",
			RequestTimeoutSecs:   30,
			PerHostIntervalMilli: 1000,
		},
		Cache: CacheConfig{
			FreshSecs:  300,
			MaxAgeDays: 7,
			MaxSizeMB:  100,
		},
		LogLevel: "debug",
	}
}

// RequestTimeout returns the network timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	if c.Network.RequestTimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Network.RequestTimeoutSecs) * time.Second
}

// PerHostInterval returns the minimum delay between requests to one host
func (c *Config) PerHostInterval() time.Duration {
	if c.Network.PerHostIntervalMilli <= 0 {
		return time.Second
	}
	return time.Duration(c.Network.PerHostIntervalMilli) * time.Millisecond
}

// Dir returns the data directory, creating nothing
func (c *Config) Dir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chandesk")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chandesk", "config.json")
}

// Load reads config from disk, or returns defaults. A corrupt config file
// is not an error: startup proceeds with defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from an explicit path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
