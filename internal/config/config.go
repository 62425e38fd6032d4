// Package config manages application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML values like "10m" decode cleanly.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	// CachePath is where the metadata cache is persisted.
	CachePath string `toml:"cache_path"`

	// yt-dlp settings
	YtdlpPath    string   `toml:"ytdlp_path"`
	YtdlpTimeout Duration `toml:"ytdlp_timeout"`

	// Data API settings. APIKey wins over APIKeyFile when both are set.
	APIKey     string  `toml:"api_key"`
	APIKeyFile string  `toml:"api_key_file"`
	APIRate    float64 `toml:"api_rate"`

	// Retry settings
	MaxRetries        int      `toml:"max_retries"`
	InitialBackoff    Duration `toml:"initial_backoff"`
	MaxBackoff        Duration `toml:"max_backoff"`
	BackoffMultiplier float64  `toml:"backoff_multiplier"`
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "ytsync2")
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		CachePath:         filepath.Join(configDir(), "cache.json"),
		YtdlpPath:         "yt-dlp",
		YtdlpTimeout:      Duration(10 * time.Minute),
		APIKeyFile:        filepath.Join(configDir(), "api-key"),
		APIRate:           1.0,
		MaxRetries:        5,
		InitialBackoff:    Duration(1 * time.Second),
		MaxBackoff:        Duration(30 * time.Second),
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from the TOML file at path (optional when path
// is empty and the default file is absent), applies environment variable
// overrides, and validates the result.
// Priority: env vars > config file > defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTSYNC2_CACHE_PATH"); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv("YTSYNC2_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTSYNC2_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = Duration(d)
		}
	}
	if v := os.Getenv("YTSYNC2_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTSYNC2_API_KEY_FILE"); v != "" {
		c.APIKeyFile = v
	}
	if v := os.Getenv("YTSYNC2_API_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.APIRate = f
		}
	}
	if v := os.Getenv("YTSYNC2_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTSYNC2_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = Duration(d)
		}
	}
	if v := os.Getenv("YTSYNC2_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = Duration(d)
		}
	}
}

// ResolveAPIKey returns the Data API key: the explicit value if set,
// otherwise the contents of the key file. An absent key file yields an
// empty key, not an error; detail fetches then degrade to soft failures.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	if c.APIKeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.APIKeyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read api key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.CachePath == "" {
		return fmt.Errorf("cache_path must be set")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.APIRate <= 0 {
		return fmt.Errorf("api_rate must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
