// Package config centralizes environment-driven configuration. Values
// load with sensible defaults and validate on startup so a misconfigured
// deployment fails fast.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application settings.
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Geo     GeoConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        // SERVER_HOST, default 0.0.0.0
	Port            int           // SERVER_PORT, default 8080
	ShutdownTimeout time.Duration // SERVER_SHUTDOWN_TIMEOUT, default 15s
}

// DataConfig names the raw source tables. The four country-level URLs
// are required; regional URLs are optional extras merged on top.
type DataConfig struct {
	NominalCurrentURL  string        // DATA_NOMINAL_CURRENT_URL
	NominalConstantURL string        // DATA_NOMINAL_CONSTANT_URL
	PPPCurrentURL      string        // DATA_PPP_CURRENT_URL
	PPPConstantURL     string        // DATA_PPP_CONSTANT_URL
	RegionalURLs       []string      // DATA_REGIONAL_URLS, comma-separated
	FetchTimeout       time.Duration // DATA_FETCH_TIMEOUT, default 60s
}

// GeoConfig locates the boundary collection. The property key carrying
// the region code differs between providers, so it is configurable.
type GeoConfig struct {
	BoundariesURL string // GEO_BOUNDARIES_URL
	CodeProperty  string // GEO_CODE_PROPERTY, default "iso_a3"
	NameProperty  string // GEO_NAME_PROPERTY, default "name"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string // LOG_LEVEL: debug, info, warn, error (default info)
	Format string // LOG_FORMAT: text or json (default text)
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            envStr("SERVER_HOST", "0.0.0.0"),
			Port:            envInt("SERVER_PORT", 8080),
			ShutdownTimeout: envDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Data: DataConfig{
			NominalCurrentURL:  os.Getenv("DATA_NOMINAL_CURRENT_URL"),
			NominalConstantURL: os.Getenv("DATA_NOMINAL_CONSTANT_URL"),
			PPPCurrentURL:      os.Getenv("DATA_PPP_CURRENT_URL"),
			PPPConstantURL:     os.Getenv("DATA_PPP_CONSTANT_URL"),
			RegionalURLs:       envList("DATA_REGIONAL_URLS"),
			FetchTimeout:       envDuration("DATA_FETCH_TIMEOUT", 60*time.Second),
		},
		Geo: GeoConfig{
			BoundariesURL: os.Getenv("GEO_BOUNDARIES_URL"),
			CodeProperty:  envStr("GEO_CODE_PROPERTY", "iso_a3"),
			NameProperty:  envStr("GEO_NAME_PROPERTY", "name"),
		},
		Logging: LoggingConfig{
			Level:  envStr("LOG_LEVEL", "info"),
			Format: envStr("LOG_FORMAT", "text"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at an awkward time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	required := map[string]string{
		"DATA_NOMINAL_CURRENT_URL":  c.Data.NominalCurrentURL,
		"DATA_NOMINAL_CONSTANT_URL": c.Data.NominalConstantURL,
		"DATA_PPP_CURRENT_URL":      c.Data.PPPCurrentURL,
		"DATA_PPP_CONSTANT_URL":     c.Data.PPPConstantURL,
		"GEO_BOUNDARIES_URL":        c.Geo.BoundariesURL,
	}
	for name, v := range required {
		if v == "" {
			return fmt.Errorf("required environment variable %s is not set", name)
		}
	}
	if c.Data.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.Data.FetchTimeout)
	}
	return nil
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envList(name string) []string {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
