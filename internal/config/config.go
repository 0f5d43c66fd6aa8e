// Package config resolves wakasync settings from, lowest to highest
// precedence: built-in defaults, an optional YAML file, a .env file, and
// process environment variables. CLI flag overrides happen in the caller,
// which knows which flags were explicitly set.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wakasync/internal/wakatime"
)

// Config holds every tunable for a wakasync run.
type Config struct {
	// APIKey is the WakaTime API key (Basic auth). One of APIKey or
	// AccessToken is required.
	APIKey string `yaml:"api_key"`
	// AccessToken is an OAuth2 bearer token, an alternative to APIKey.
	AccessToken string `yaml:"access_token"`
	// APIURL is the API base URL; self-hosted compatible servers override it.
	APIURL string `yaml:"api_url"`
	// OutDir is where the three CSV ledgers live.
	OutDir string `yaml:"out_dir"`
	// TopN is how many top projects/languages to record per day.
	TopN int `yaml:"top_n"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`
	// Date overrides the recorded date stamp (YYYY-MM-DD); empty means today.
	Date string `yaml:"date"`
	// GitCommit enables committing updated ledgers to a git repo in OutDir.
	GitCommit bool `yaml:"git_commit"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		APIURL:   wakatime.DefaultBaseURL,
		OutDir:   "./data",
		TopN:     5,
		Timeout:  30 * time.Second,
		LogLevel: "info",
	}
}

// Load builds a Config. A missing .env file is fine; a named-but-missing
// YAML file is an error.
func Load(configPath string) (Config, error) {
	cfg := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}
	// Fill process env from .env without clobbering real env vars.
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("WAKATIME_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("WAKATIME_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("WAKATIME_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("WAKASYNC_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("WAKASYNC_DATE"); v != "" {
		cfg.Date = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WAKASYNC_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WAKASYNC_TOP_N: %w", err)
		}
		cfg.TopN = n
	}
	if v := os.Getenv("WAKASYNC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WAKASYNC_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("WAKASYNC_GIT_COMMIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WAKASYNC_GIT_COMMIT: %w", err)
		}
		cfg.GitCommit = b
	}
	return nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.AccessToken == "" {
		return errors.New("either WAKATIME_API_KEY or WAKATIME_ACCESS_TOKEN is required")
	}
	if c.OutDir == "" {
		return errors.New("output directory must not be empty")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}
