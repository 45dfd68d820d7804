package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func validEnv() map[string]string {
	return map[string]string{
		"BACKEND_URL":    "http://api.internal:9000",
		"SESSION_SECRET": "0123456789abcdef-secret",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, DefaultAppAddr, cfg.GetAppAddr())
	assert.Equal(t, DefaultAppBaseURL, cfg.GetAppBaseURL())
	assert.Equal(t, "http://api.internal:9000", cfg.GetBackendURL())
	assert.Equal(t, DefaultBackendTimeout, cfg.GetBackendTimeout())
	assert.Equal(t, DefaultBackendRetries, cfg.GetBackendRetries())
	assert.Equal(t, DefaultContentDir, cfg.GetContentDir())
	assert.Equal(t, DefaultPollInterval, cfg.GetPollInterval())
	assert.Equal(t, "text", cfg.GetLogFormat())
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Empty(t, cfg.GetAllowedOrigins())
	assert.False(t, cfg.GetTracing().Enabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	env := validEnv()
	env["APP_ADDR"] = ":9090"
	env["BACKEND_TIMEOUT"] = "3s"
	env["BACKEND_RETRIES"] = "5"
	env["NOTIFICATION_POLL_INTERVAL"] = "1m"
	env["LOG_FORMAT"] = "JSON"
	env["LOG_LEVEL"] = "debug"
	env["WS_ALLOWED_ORIGINS"] = "example.com, *.example.com,,"
	env["PUBSUB_TRACING_ENABLED"] = "true"

	cfg, err := FromEnv(envOf(env))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppAddr)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 5, cfg.BackendRetries)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"example.com", "*.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing backend", "BACKEND_URL", ""},
		{"backend not a url", "BACKEND_URL", "not a url"},
		{"short secret", "SESSION_SECRET", "short"},
		{"bad timeout", "BACKEND_TIMEOUT", "soon"},
		{"bad retries", "BACKEND_RETRIES", "many"},
		{"too many retries", "BACKEND_RETRIES", "50"},
		{"poll too fast", "NOTIFICATION_POLL_INTERVAL", "10ms"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			env[tt.key] = tt.val
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	contents := "BACKEND_URL=http://from-file:1234\nSESSION_SECRET=file-secret-0123456789\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("BACKEND_URL", "")
	t.Setenv("SESSION_SECRET", "")
	// godotenv does not override variables that are already set, even empty.
	os.Unsetenv("BACKEND_URL")
	os.Unsetenv("SESSION_SECRET")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:1234", cfg.BackendURL)
	assert.Equal(t, "file-secret-0123456789", cfg.SessionSecret)
}
