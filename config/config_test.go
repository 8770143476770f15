package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogURL != "http://localhost:8000" {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.MinFetchZoom != 8 {
		t.Errorf("MinFetchZoom = %d, want 8", cfg.MinFetchZoom)
	}
	if cfg.FetchDebounce != 500*time.Millisecond {
		t.Errorf("FetchDebounce = %v", cfg.FetchDebounce)
	}
	if cfg.FetchLimit != 75 {
		t.Errorf("FetchLimit = %d, want 75", cfg.FetchLimit)
	}
	if cfg.BoundsBuffer != 0.15 {
		t.Errorf("BoundsBuffer = %v", cfg.BoundsBuffer)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_URL", "http://example.test:9000")
	t.Setenv("MIN_FETCH_ZOOM", "10")
	t.Setenv("MIN_FETCH_INTERVAL", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogURL != "http://example.test:9000" {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.MinFetchZoom != 10 {
		t.Errorf("MinFetchZoom = %d, want 10", cfg.MinFetchZoom)
	}
	if cfg.MinFetchInterval != time.Second {
		t.Errorf("MinFetchInterval = %v", cfg.MinFetchInterval)
	}
}

func TestLoadBadValue(t *testing.T) {
	t.Setenv("CENTER_LAT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed CENTER_LAT")
	}
}
