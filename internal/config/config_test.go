package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the given variables for the duration of the test and
// restores their previous values afterwards.
func clearEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func clearAPIEnv(t *testing.T) {
	t.Helper()
	clearEnv(t,
		"API_KEY",
		"CHEQPRINT_API_KEY",
		"CHEQPRINT_API_BASE_URL",
		"CHEQPRINT_API_TIMEOUT",
		"CHEQPRINT_LOGGING_LEVEL",
		"CHEQPRINT_LOGGING_FORMAT",
		"CHEQPRINT_LOGGING_OUTPUT",
		"CHEQPRINT_CONSOLE_COLOR",
		"CHEQPRINT_TELEMETRY_METRICS_TEXTFILE",
	)
}

// writeTempFile creates a file with the given name inside a temp dir.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal("WriteFile:", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// APIConfig
// ---------------------------------------------------------------------------

func TestRequireKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"present", "sk_live_abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := APIConfig{Key: tt.key}
			err := a.RequireKey()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingAPIKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaskedKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"sk_live_0123456789abcdefghij", "sk_live_0123456789ab..."},
		{"short", "short..."},
		{"exactly_twenty_chars", "exactly_twenty_chars..."},
		{strings.Repeat("é", 25), strings.Repeat("é", 20) + "..."},
	}
	for _, tt := range tests {
		a := APIConfig{Key: tt.key}
		if got := a.MaskedKey(); got != tt.want {
			t.Errorf("MaskedKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Config.Validate
// ---------------------------------------------------------------------------

func minimalValidConfig() *Config {
	return &Config{
		API:     APIConfig{BaseURL: DefaultBaseURL},
		Logging: LoggingConfig{Level: "warn", Format: "text", Output: "stderr"},
		Console: ConsoleConfig{Color: "auto"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid minimal config passes", func(t *testing.T) {
		if err := minimalValidConfig().Validate(); err != nil {
			t.Errorf("Validate() unexpected error: %v", err)
		}
	})

	t.Run("missing api key is not a validation error", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.API.Key = ""
		assert.NoError(t, cfg.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base_url", func(c *Config) { c.API.BaseURL = "" }},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }},
		{"no host", func(c *Config) { c.API.BaseURL = "https://" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"invalid logging level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"invalid logging output", func(c *Config) { c.Logging.Output = "file" }},
		{"invalid color mode", func(c *Config) { c.Console.Color = "rainbow" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := minimalValidConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() expected error for %s, got nil", tc.name)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_DefaultsWithNoFile(t *testing.T) {
	clearAPIEnv(t)

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.API.Key)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "auto", cfg.Console.Color)
	assert.ErrorIs(t, cfg.API.RequireKey(), ErrMissingAPIKey)
}

func TestLoad_APIKeyFromUnprefixedEnv(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("API_KEY", "sk_live_from_env")

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sk_live_from_env", cfg.API.Key)
}

func TestLoad_PrefixedEnvWinsOverUnprefixed(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("API_KEY", "sk_live_plain")
	t.Setenv("CHEQPRINT_API_KEY", "sk_live_prefixed")

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sk_live_prefixed", cfg.API.Key)
}

func TestLoad_WithConfigFile(t *testing.T) {
	clearAPIEnv(t)
	const content = `
api:
  key: "sk_test_yaml"
  base_url: "http://localhost:54321/functions/v1/"
  timeout: "15s"
logging:
  level: "debug"
  format: "json"
  output: "stdout"
console:
  color: "never"
telemetry:
  metrics:
    textfile: "/tmp/cheqprint.prom"
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_test_yaml", cfg.API.Key)
	// Trailing slash trimmed so endpoint joining stays predictable.
	assert.Equal(t, "http://localhost:54321/functions/v1", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "never", cfg.Console.Color)
	assert.Equal(t, "/tmp/cheqprint.prom", cfg.Telemetry.Metrics.Textfile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("CHEQPRINT_API_BASE_URL", "https://staging.example.com/v1")
	path := writeTempFile(t, "config.yaml", "api:\n  base_url: \"https://file.example.com\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/v1", cfg.API.BaseURL)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearAPIEnv(t)
	path := writeTempFile(t, ".env", "API_KEY=sk_live_dotenv\nCHEQPRINT_CONSOLE_COLOR=always\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_dotenv", cfg.API.Key)
	assert.Equal(t, "always", cfg.Console.Color)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("API_KEY", "sk_live_shell")
	path := writeTempFile(t, ".env", "API_KEY=sk_live_dotenv\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_shell", cfg.API.Key)
}

func TestLoad_DotEnvInWorkingDirectory(t *testing.T) {
	clearAPIEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_KEY=sk_live_cwd\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk_live_cwd", cfg.API.Key)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("TEST_CHEQPRINT_SECRET", "sk_live_expanded")
	path := writeTempFile(t, "config.yaml", "api:\n  key: \"${TEST_CHEQPRINT_SECRET}\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_expanded", cfg.API.Key)
}

func TestLoad_KeyWithDollarKeptVerbatim(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("API_KEY", "sk_live_ab$cdEF")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk_live_ab$cdEF", cfg.API.Key)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_CHEQPRINT_PART", "xyz")
	tests := []struct {
		in   string
		want string
	}{
		{"${TEST_CHEQPRINT_PART}", "xyz"},
		{"pre_${TEST_CHEQPRINT_PART}_post", "pre_xyz_post"},
		{"sk_$TEST_CHEQPRINT_PART", "sk_$TEST_CHEQPRINT_PART"},
		{"a$b$", "a$b$"},
		{"${}", "${}"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandEnv(tt.in); got != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearAPIEnv(t)
	path := writeTempFile(t, "config.yaml", "api: [unclosed")
	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidValueRejected(t *testing.T) {
	clearAPIEnv(t)
	t.Setenv("CHEQPRINT_LOGGING_LEVEL", "chatty")

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid configuration"), "got %v", err)
	assert.False(t, errors.Is(err, ErrMissingAPIKey))
}
