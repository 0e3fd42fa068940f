package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is used when no other source provides a base URL.
// Matches the development backend the service ships with.
const DefaultAPIURL = "http://localhost:5000/api"

// Config holds client configuration
type Config struct {
	// APIURL is the base URL of the event-coordination API
	APIURL string `yaml:"api_url"`

	// LogLevel is the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFormat is the log output format (text, json)
	LogFormat string `yaml:"log_format"`

	// UpcomingOnly filters the home screen to future-dated events
	UpcomingOnly bool `yaml:"upcoming_only"`
}

// defaults returns the built-in configuration
func defaults() Config {
	return Config{
		APIURL:       DefaultAPIURL,
		LogLevel:     "warn",
		LogFormat:    "text",
		UpcomingOnly: true,
	}
}

// configDir returns the kickabout configuration directory (~/.kickabout)
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".kickabout"), nil
}

// Load resolves configuration from, in increasing precedence:
// built-in defaults, ~/.kickabout/config.yaml, a .env file in the
// working directory, and KICKABOUT_* environment variables.
func Load() (Config, error) {
	cfg := defaults()

	dir, err := configDir()
	if err != nil {
		return cfg, err
	}

	// Config file is optional.
	path := filepath.Join(dir, "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	// .env is optional too; godotenv does not override existing env vars.
	_ = godotenv.Load()

	if url := os.Getenv("KICKABOUT_API_URL"); url != "" {
		cfg.APIURL = url
	}
	if level := os.Getenv("KICKABOUT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("KICKABOUT_LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	return cfg, nil
}

// Save writes the configuration to ~/.kickabout/config.yaml
func Save(cfg Config) error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0600)
}

// EnvFingerprint derives a short stable fingerprint for an API base URL.
// Sessions and caches are stored per fingerprint so switching backends
// never leaks one environment's state into another.
func EnvFingerprint(apiURL string) string {
	sum := blake3.Sum256([]byte(apiURL))
	return hex.EncodeToString(sum[:])[:8]
}

// StateDir returns the per-environment state directory for an API base URL,
// creating it if necessary.
func (c Config) StateDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}

	stateDir := filepath.Join(dir, "state", EnvFingerprint(c.APIURL))
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}

	return stateDir, nil
}
