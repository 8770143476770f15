package geo

import "math"

// Bounds is a geographic rectangle in degrees.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Viewport is the rectangle (plus zoom level) currently shown by the camera.
type Viewport struct {
	Bounds Bounds
	Zoom   int
}

// Buffer expands the bounds outward by frac of each axis span, so small
// pans stay inside already-fetched territory.
func (b Bounds) Buffer(frac float64) Bounds {
	latBuf := (b.MaxLat - b.MinLat) * frac
	lonBuf := (b.MaxLon - b.MinLon) * frac
	return Bounds{
		MinLat: b.MinLat - latBuf,
		MaxLat: b.MaxLat + latBuf,
		MinLon: b.MinLon - lonBuf,
		MaxLon: b.MaxLon + lonBuf,
	}
}

// Contains reports whether inner lies fully within b.
func (b Bounds) Contains(inner Bounds) bool {
	return inner.MinLat >= b.MinLat && inner.MaxLat <= b.MaxLat &&
		inner.MinLon >= b.MinLon && inner.MaxLon <= b.MaxLon
}

// ContainsPoint reports whether the point lies within b.
func (b Bounds) ContainsPoint(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// AreaKm2 returns the approximate area in square kilometers, accounting
// for longitude degrees shrinking away from the equator.
func (b Bounds) AreaKm2() float64 {
	latMid := (b.MinLat + b.MaxLat) / 2 * math.Pi / 180
	dLat := b.MaxLat - b.MinLat
	dLon := b.MaxLon - b.MinLon

	kx := 111132.92 - 559.82*math.Cos(2*latMid)
	ky := 111412.84 * math.Cos(latMid)

	return math.Abs(dLat*kx*dLon*ky) / 1e6
}
