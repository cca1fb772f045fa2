package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_NOMINAL_CURRENT_URL", "file:///data/gdp_current.csv")
	t.Setenv("DATA_NOMINAL_CONSTANT_URL", "file:///data/gdp_constant.csv")
	t.Setenv("DATA_PPP_CURRENT_URL", "file:///data/ppp_current.csv")
	t.Setenv("DATA_PPP_CONSTANT_URL", "file:///data/ppp_constant.csv")
	t.Setenv("GEO_BOUNDARIES_URL", "file:///data/world.geojson")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr())
	}
	if cfg.Geo.CodeProperty != "iso_a3" {
		t.Errorf("default code property = %q", cfg.Geo.CodeProperty)
	}
	if cfg.Data.FetchTimeout != 60*time.Second {
		t.Errorf("default fetch timeout = %s", cfg.Data.FetchTimeout)
	}
	if len(cfg.Data.RegionalURLs) != 0 {
		t.Errorf("regional urls should default empty, got %v", cfg.Data.RegionalURLs)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GEO_CODE_PROPERTY", "ADM0_A3")
	t.Setenv("DATA_REGIONAL_URLS", "file:///a.csv, file:///b.csv ,")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Geo.CodeProperty != "ADM0_A3" {
		t.Errorf("code property = %q", cfg.Geo.CodeProperty)
	}
	if len(cfg.Data.RegionalURLs) != 2 || cfg.Data.RegionalURLs[1] != "file:///b.csv" {
		t.Errorf("regional urls = %v", cfg.Data.RegionalURLs)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("log format = %q", cfg.Logging.Format)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DATA_PPP_CURRENT_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing required source URL")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
