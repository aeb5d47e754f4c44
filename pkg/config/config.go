package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"devek/pkg/errors"
	"devek/pkg/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultType           = "html"
	DefaultFallbackFormat = "text"
	DefaultLogLevel       = "warn"
)

// LogLevels are the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error", "off"}

// Config holds the defaults applied before command-line flags. Values are
// kept as written and checked only when a flag actually falls back to them,
// so a bad setting never blocks an invocation that overrides it.
type Config struct {
	Type           string `yaml:"type"`
	FallbackFormat string `yaml:"fallback_format"`
	Width          string `yaml:"width"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns the configuration used when neither a file nor the
// environment sets anything.
func Default() *Config {
	return &Config{
		Type:           DefaultType,
		FallbackFormat: DefaultFallbackFormat,
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads the config file and applies environment overrides.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, errors.ErrMsgConfigLoad, err)
	}
	return loadFromPath(configPath)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "devek", "config.yaml"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadFromPath(configPath string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// No file, env vars and defaults apply.
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	logger.Debug().Str("path", path).Msg("loaded config file")
	return nil
}

// applyEnvironmentOverrides lets DEVEK_* variables override the file.
func applyEnvironmentOverrides(cfg *Config) {
	cfg.Type = getEnv("DEVEK_TYPE", cfg.Type)
	cfg.FallbackFormat = getEnv("DEVEK_FALLBACK_FORMAT", cfg.FallbackFormat)
	cfg.Width = getEnv("DEVEK_WIDTH", cfg.Width)
	cfg.LogLevel = getEnv("DEVEK_LOG_LEVEL", cfg.LogLevel)
}

func applyDefaults(cfg *Config) {
	if cfg.Type == "" {
		cfg.Type = DefaultType
	}
	if cfg.FallbackFormat == "" {
		cfg.FallbackFormat = DefaultFallbackFormat
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// ParseWidth returns the configured wrap width; unset means 0.
func (c *Config) ParseWidth() (int, error) {
	if c.Width == "" {
		return 0, nil
	}
	width, err := strconv.Atoi(c.Width)
	if err != nil || width < 0 {
		return 0, errors.ConfigError(fmt.Sprintf("width must be a non-negative integer, got %q", c.Width))
	}
	return width, nil
}
