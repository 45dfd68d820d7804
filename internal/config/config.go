package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nfrund/propertyhub/internal/pubsub"
)

// Provider is the read-only view of the configuration handed to components.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetBackendURL() string
	GetBackendTimeout() time.Duration
	GetBackendRetries() int
	GetSessionSecret() string
	GetContentDir() string
	GetPollInterval() time.Duration
	GetLogFormat() string
	GetLogLevel() string
	GetAllowedOrigins() []string
	GetTracing() pubsub.TracingConfig
}

// Config holds all configuration for the site server.
type Config struct {
	AppAddr        string        `validate:"required"`
	AppBaseURL     string        `validate:"required,url"`
	BackendURL     string        `validate:"required,url"`
	BackendTimeout time.Duration `validate:"gt=0"`
	BackendRetries int           `validate:"gte=0,lte=10"`
	SessionSecret  string        `validate:"required,min=16"`
	ContentDir     string        `validate:"required"`
	PollInterval   time.Duration `validate:"gte=1s"`
	LogFormat      string        `validate:"oneof=text json"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	AllowedOrigins []string
	Tracing        pubsub.TracingConfig
}

var _ Provider = (*Config)(nil)

// Defaults for keys that may be left unset.
const (
	DefaultAppAddr        = ":8080"
	DefaultAppBaseURL     = "http://localhost:8080"
	DefaultBackendTimeout = 10 * time.Second
	DefaultBackendRetries = 2
	DefaultContentDir     = "content"
	DefaultPollInterval   = 30 * time.Second
)

// Load reads an optional .env file and then builds the configuration from
// the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config from values looked up with getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppAddr:        stringOr(getenv("APP_ADDR"), DefaultAppAddr),
		AppBaseURL:     stringOr(getenv("APP_BASE_URL"), DefaultAppBaseURL),
		BackendURL:     getenv("BACKEND_URL"),
		SessionSecret:  getenv("SESSION_SECRET"),
		ContentDir:     stringOr(getenv("CONTENT_DIR"), DefaultContentDir),
		LogFormat:      stringOr(strings.ToLower(getenv("LOG_FORMAT")), "text"),
		LogLevel:       stringOr(strings.ToLower(getenv("LOG_LEVEL")), "info"),
		AllowedOrigins: splitList(getenv("WS_ALLOWED_ORIGINS")),
		Tracing:        pubsub.TracingConfigFromEnv(getenv),
	}

	var err error
	if cfg.BackendTimeout, err = durationOr(getenv("BACKEND_TIMEOUT"), DefaultBackendTimeout); err != nil {
		return nil, fmt.Errorf("BACKEND_TIMEOUT: %w", err)
	}
	if cfg.PollInterval, err = durationOr(getenv("NOTIFICATION_POLL_INTERVAL"), DefaultPollInterval); err != nil {
		return nil, fmt.Errorf("NOTIFICATION_POLL_INTERVAL: %w", err)
	}
	cfg.BackendRetries = DefaultBackendRetries
	if v := getenv("BACKEND_RETRIES"); v != "" {
		if cfg.BackendRetries, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("BACKEND_RETRIES: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) GetAppAddr() string               { return c.AppAddr }
func (c *Config) GetAppBaseURL() string            { return c.AppBaseURL }
func (c *Config) GetBackendURL() string            { return c.BackendURL }
func (c *Config) GetBackendTimeout() time.Duration { return c.BackendTimeout }
func (c *Config) GetBackendRetries() int           { return c.BackendRetries }
func (c *Config) GetSessionSecret() string         { return c.SessionSecret }
func (c *Config) GetContentDir() string            { return c.ContentDir }
func (c *Config) GetPollInterval() time.Duration   { return c.PollInterval }
func (c *Config) GetLogFormat() string             { return c.LogFormat }
func (c *Config) GetLogLevel() string              { return c.LogLevel }
func (c *Config) GetAllowedOrigins() []string      { return c.AllowedOrigins }
func (c *Config) GetTracing() pubsub.TracingConfig { return c.Tracing }

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func durationOr(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

// splitList parses a comma separated list, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
