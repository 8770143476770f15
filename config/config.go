// Package config loads all tunables from the environment. Defaults match
// the reference deployment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// CatalogURL is the backend base URL (scheme://host, no path).
	CatalogURL string `env:"CATALOG_URL" envDefault:"http://localhost:8000"`
	// TileURL is the basemap tile server.
	TileURL string `env:"TILE_URL" envDefault:"https://tile.openstreetmap.org"`

	// User location for server-side distance annotation.
	CenterLat float64 `env:"CENTER_LAT" envDefault:"40.7128"`
	CenterLng float64 `env:"CENTER_LNG" envDefault:"-74.0060"`

	// Engine tuning.
	MinFetchZoom     int           `env:"MIN_FETCH_ZOOM" envDefault:"8"`
	MinFetchInterval time.Duration `env:"MIN_FETCH_INTERVAL" envDefault:"400ms"`
	FetchDebounce    time.Duration `env:"FETCH_DEBOUNCE" envDefault:"500ms"`
	ZoomInRatio      float64       `env:"ZOOM_IN_RATIO" envDefault:"2"`
	BoundsBuffer     float64       `env:"BOUNDS_BUFFER" envDefault:"0.15"`
	CacheCap         int           `env:"CACHE_CAP" envDefault:"3000"`
	FetchLimit       int           `env:"FETCH_LIMIT" envDefault:"75"`

	// ConnectivityInterval is how often the health endpoint is probed.
	ConnectivityInterval time.Duration `env:"CONNECTIVITY_INTERVAL" envDefault:"15s"`

	// PrefsPath is where UI preferences persist.
	PrefsPath string `env:"PREFS_PATH" envDefault:"servicemap-prefs.db"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
