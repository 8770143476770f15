package tiles

import (
	"image"
	"math"
	"testing"
)

func TestLatLngTileRoundTrip(t *testing.T) {
	nyc := LatLng{Lat: 40.7128, Lng: -74.0060}
	tile := LatLngToTile(nyc, 13)
	back := TileToLatLng(tile)

	// Tile centers are coarse; a 13-zoom tile spans a few hundredths of
	// a degree.
	if math.Abs(back.Lat-nyc.Lat) > 0.05 || math.Abs(back.Lng-nyc.Lng) > 0.05 {
		t.Fatalf("round trip drifted: %v -> %v -> %v", nyc, tile, back)
	}
}

func TestWorldCoordinateRoundTrip(t *testing.T) {
	nyc := LatLng{Lat: 40.7128, Lng: -74.0060}
	x, y := CalculateWorldCoordinates(nyc, 13)
	back := WorldToLatLng(x, y, 13)

	if math.Abs(back.Lat-nyc.Lat) > 1e-9 || math.Abs(back.Lng-nyc.Lng) > 1e-9 {
		t.Fatalf("round trip drifted: %v -> (%v,%v) -> %v", nyc, x, y, back)
	}
}

func TestScreenBoundsContainsCenter(t *testing.T) {
	nyc := LatLng{Lat: 40.7128, Lng: -74.0060}
	b := ScreenBounds(nyc, 13, image.Point{X: 800, Y: 600})

	if !b.ContainsPoint(nyc.Lat, nyc.Lng) {
		t.Fatalf("bounds %+v do not contain their center", b)
	}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		t.Fatalf("degenerate bounds %+v", b)
	}
	// A wider screen must cover a wider longitude span.
	wide := ScreenBounds(nyc, 13, image.Point{X: 1600, Y: 600})
	if wide.MaxLon-wide.MinLon <= b.MaxLon-b.MinLon {
		t.Fatalf("wider screen did not widen bounds: %+v vs %+v", wide, b)
	}
}

func TestConstrainTile(t *testing.T) {
	got := ConstrainTile(Tile{X: -5, Y: 99999, Zoom: 4})
	if got.X != 0 || got.Y != 15 {
		t.Fatalf("ConstrainTile = %+v, want X=0 Y=15", got)
	}
}
