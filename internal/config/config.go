// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Page     PageConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig describes where the book list CSV lives and how it is fetched.
type SourceConfig struct {
	// Location is a path, file:// URL, http(s):// URL or s3://bucket/key.
	// Supports both SOURCE_LOCATION and BOOKLIST_LOCATION env vars.
	Location string `env:"SOURCE_LOCATION" envAlt:"BOOKLIST_LOCATION" default:"data/booklist.csv"`

	// Timeout bounds a single HTTP fetch (default: 10s)
	Timeout time.Duration `env:"SOURCE_TIMEOUT" default:"10s"`

	// MaxBytes is the largest document the loader accepts (default: 10MB)
	MaxBytes int64 `env:"SOURCE_MAX_BYTES" default:"10485760"`

	// Publish serves a local source file at /booklist.csv (default: true)
	Publish bool `env:"SOURCE_PUBLISH" default:"true"`

	// S3Region is the AWS region used for s3:// locations (default: us-east-1)
	S3Region string `env:"SOURCE_S3_REGION" default:"us-east-1"`

	// MaxConcurrent caps simultaneous loads of the source; 0 disables the cap (default: 8)
	MaxConcurrent int `env:"SOURCE_MAX_CONCURRENT" default:"8"`

	// MaxWait is how long a run waits for a load slot before failing (default: 10s)
	MaxWait time.Duration `env:"SOURCE_MAX_WAIT" default:"10s"`
}

// PageConfig holds presentation settings for the rendered page.
type PageConfig struct {
	Title string `env:"PAGE_TITLE" default:"Book List"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
