package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override the file,
// e.g. HATECHECK_CLASSIFIER_URL overrides classifier.url
const EnvPrefix = "HATECHECK_"

// DefaultClassifierURL is the hosted hate speech detection service
const DefaultClassifierURL = "https://architrawat25-real-time-hate-speech-detection.hf.space"

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Session    SessionConfig    `koanf:"session"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Mode string `koanf:"mode"`
}

// ClassifierConfig holds the remote classification service settings.
// A zero Timeout disables the per-request deadline.
type ClassifierConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// SessionConfig holds in-memory session eviction settings
type SessionConfig struct {
	Idle  time.Duration `koanf:"idle"`
	Sweep time.Duration `koanf:"sweep"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

var defaults = map[string]interface{}{
	"server.host":        "0.0.0.0",
	"server.port":        8080,
	"server.mode":        "debug",
	"classifier.url":     DefaultClassifierURL,
	"classifier.timeout": 30 * time.Second,
	"session.idle":       30 * time.Minute,
	"session.sweep":      time.Minute,
	"log.level":          "info",
	"log.format":         "json",
}

// Load builds the configuration from defaults, the optional YAML file at
// path and HATECHECK_* environment variables, in that order of precedence.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Classifier.URL) == "" {
		return errors.New("classifier.url must not be empty")
	}
	if c.Classifier.Timeout < 0 {
		return errors.New("classifier.timeout must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// envKey maps HATECHECK_SERVER_PORT to server.port
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// FileFromEnv returns the config file path named by HATECHECK_CONFIG, or fallback
func FileFromEnv(fallback string) string {
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
		return v
	}
	return fallback
}
