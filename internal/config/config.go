// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"time"
)

// Default values.
const (
	DefaultAddr           = ":9080"
	DefaultAnalyzeURL     = "http://127.0.0.1:8000/analyze/"
	DefaultMaxUploadBytes = 32 << 20
	DefaultRefreshMS      = 1000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address for the web page, e.g. ":9080".
	Addr string `koanf:"addr"`
	// AnalyzeURL is the analysis service endpoint receiving the multipart POST.
	AnalyzeURL string `koanf:"analyze_url"`
	// RequestTimeoutMS bounds the analysis call. Zero leaves it unbounded.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
	// MaxUploadBytes caps the size of an uploaded form.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	// RefreshIntervalMS is how often the page reloads itself while loading.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              DefaultAddr,
		AnalyzeURL:        DefaultAnalyzeURL,
		RequestTimeoutMS:  0,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		RefreshIntervalMS: DefaultRefreshMS,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// RefreshInterval returns RefreshIntervalMS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}
