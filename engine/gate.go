package engine

import (
	"time"

	"servicemap/catalog"
	"servicemap/geo"
)

// Memo remembers what the last successful fetch covered, so the gate can
// answer "do we need to fetch again?" without consulting the cache.
// Updated only on success; a failed fetch must not be remembered as
// satisfied.
type Memo struct {
	Bounds    geo.Bounds
	HasBounds bool
	Filters   catalog.FilterState
	FetchedAt time.Time
}

// Decision is the gate's verdict for one viewport/filter change.
type Decision struct {
	Fetch bool
	// ClearVisible signals that the camera is too far out to usefully
	// query and the visible result set should be hidden. The cache is
	// kept; zooming back in restores it without a fetch.
	ClearVisible bool
}

// GateConfig carries the gate's tuning knobs.
type GateConfig struct {
	// MinZoom below which no fetch happens (state/country scale).
	MinZoom int
	// MinInterval between fetches under rapid gesture input.
	MinInterval time.Duration
	// ZoomInRatio is the old/new area ratio above which cached coarse
	// data is considered visually insufficient and a refetch is forced.
	ZoomInRatio float64
}

// Gate decides whether a viewport/filter change warrants a network fetch.
type Gate struct {
	cfg GateConfig
}

func NewGate(cfg GateConfig) Gate {
	return Gate{cfg: cfg}
}

// Decide applies the guards in order: zoom, rate, filter change, zoom-in
// ratio, containment. The first four bound request volume and staleness;
// containment skips redundant fetches on small pans.
func (g Gate) Decide(bounds geo.Bounds, zoom int, filters catalog.FilterState, memo Memo, now time.Time) Decision {
	if zoom < g.cfg.MinZoom {
		return Decision{Fetch: false, ClearVisible: true}
	}

	if !memo.FetchedAt.IsZero() && now.Sub(memo.FetchedAt) < g.cfg.MinInterval {
		return Decision{Fetch: false}
	}

	// Stale-filter data must never be shown, so a filter change fetches
	// regardless of containment.
	if memo.HasBounds && !filters.Equal(memo.Filters) {
		return Decision{Fetch: true}
	}

	if memo.HasBounds {
		if ratio := memo.Bounds.AreaKm2() / bounds.AreaKm2(); ratio > g.cfg.ZoomInRatio {
			return Decision{Fetch: true}
		}
		if memo.Bounds.Contains(bounds) {
			return Decision{Fetch: false}
		}
	}

	return Decision{Fetch: true}
}
