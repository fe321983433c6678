// Package config loads and validates the test runner configuration using Viper.
//
// Configuration is layered: built-in defaults < config file < environment
// variables. Environment variables use the CHEQPRINT_ prefix (e.g.,
// CHEQPRINT_API_BASE_URL overrides api.base_url in the YAML).
//
// The API_KEY variable has no prefix because it is the name operators already
// put in their .env files for the other CheqPrint client scripts. A .env file in
// the working directory is read with dotenv semantics: its entries become
// environment variables unless the environment already defines them.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the production CheqPrint functions endpoint.
const DefaultBaseURL = "https://xwpgblfdmlrrkksmuazy.supabase.co/functions/v1"

// ErrMissingAPIKey is returned by APIConfig.RequireKey when no key is configured.
var ErrMissingAPIKey = errors.New("API key is not configured")

// Config holds all application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Console   ConsoleConfig   `mapstructure:"console"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig holds the remote API connection settings
type APIConfig struct {
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single request; zero keeps the transport default (no timeout).
	Timeout time.Duration `mapstructure:"timeout"`
}

// RequireKey reports ErrMissingAPIKey when the bearer key is empty. A key made of
// whitespace only is treated as missing.
func (a *APIConfig) RequireKey() error {
	if strings.TrimSpace(a.Key) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// MaskedKey returns the first 20 characters of the key followed by "...".
func (a *APIConfig) MaskedKey() string {
	const visible = 20
	k := []rune(a.Key)
	if len(k) > visible {
		k = k[:visible]
	}
	return string(k) + "..."
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output is "stdout" or "stderr". Defaults to stderr so log records do not
	// interleave with the console report.
	Output string `mapstructure:"output"`
}

// ConsoleConfig controls the human-readable report
type ConsoleConfig struct {
	// Color is "auto" (terminal detection), "always" or "never".
	Color string `mapstructure:"color"`
}

// TelemetryConfig holds metrics configuration
type TelemetryConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig controls where collected metrics end up after a run
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format at the
	// end of the run (node_exporter textfile collector layout).
	Textfile string `mapstructure:"textfile"`
}

// bindEnvVars explicitly binds environment variables to config keys.
// This is necessary because AutomaticEnv() doesn't work well with nested structs during Unmarshal.
func bindEnvVars(v *viper.Viper) error {
	if err := v.BindEnv("api.key", "CHEQPRINT_API_KEY", "API_KEY"); err != nil {
		return fmt.Errorf("failed to bind env var %q: %w", "api.key", err)
	}

	keys := []string{
		"api.base_url",
		"api.timeout",

		"logging.level",
		"logging.format",
		"logging.output",

		"console.color",

		"telemetry.metrics.textfile",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env var %q: %w", key, err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables.
//
// configPath may point at a YAML file or at a dotenv file (any file named
// ".env" or ending in ".env"). When empty, ./.env is applied if present and
// config.yaml is searched in the usual locations.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	switch {
	case configPath != "" && isDotEnv(configPath):
		if err := loadDotEnv(configPath); err != nil {
			return nil, err
		}
	case configPath != "":
		v.SetConfigFile(configPath)
	default:
		if _, err := os.Stat(".env"); err == nil {
			if err := loadDotEnv(".env"); err != nil {
				return nil, err
			}
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if configPath == "" || !isDotEnv(configPath) {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			// Config file not found; use defaults and environment variables
		}
	}

	v.SetEnvPrefix("CHEQPRINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.API.Key = expandEnv(cfg.API.Key)
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR_NAME} placeholders with environment values. A bare $ is
// kept as is, since API keys may contain one.
func expandEnv(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(placeholder.FindStringSubmatch(m)[1])
	})
}

func isDotEnv(path string) bool {
	base := filepath.Base(path)
	return base == ".env" || strings.HasSuffix(base, ".env")
}

// loadDotEnv copies the entries of a dotenv file into the process environment
// without overriding variables that are already set.
func loadDotEnv(path string) error {
	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}
	for _, key := range dv.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, dv.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", name, path, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("console.color", "auto")

	v.SetDefault("telemetry.metrics.textfile", "")
}

// Validate validates the configuration. A missing API key is not a validation
// error; callers check it with APIConfig.RequireKey.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative: %s", c.API.Timeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validOutputs := map[string]bool{"stdout": true, "stderr": true}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("invalid logging output: %s (must be stdout or stderr)", c.Logging.Output)
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Console.Color] {
		return fmt.Errorf("invalid console color mode: %s (must be auto, always, or never)", c.Console.Color)
	}

	return nil
}
