package geo

import (
	"math"
	"testing"
)

func TestBufferExpandsBothAxes(t *testing.T) {
	b := Bounds{MinLat: 40.70, MaxLat: 40.80, MinLon: -74.00, MaxLon: -73.90}
	got := b.Buffer(0.15)

	wantLatBuf := 0.10 * 0.15
	wantLonBuf := 0.10 * 0.15
	if math.Abs(got.MinLat-(b.MinLat-wantLatBuf)) > 1e-9 {
		t.Fatalf("MinLat = %v, want %v", got.MinLat, b.MinLat-wantLatBuf)
	}
	if math.Abs(got.MaxLat-(b.MaxLat+wantLatBuf)) > 1e-9 {
		t.Fatalf("MaxLat = %v, want %v", got.MaxLat, b.MaxLat+wantLatBuf)
	}
	if math.Abs(got.MinLon-(b.MinLon-wantLonBuf)) > 1e-9 {
		t.Fatalf("MinLon = %v, want %v", got.MinLon, b.MinLon-wantLonBuf)
	}
	if math.Abs(got.MaxLon-(b.MaxLon+wantLonBuf)) > 1e-9 {
		t.Fatalf("MaxLon = %v, want %v", got.MaxLon, b.MaxLon+wantLonBuf)
	}
}

func TestContains(t *testing.T) {
	outer := Bounds{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	cases := []struct {
		name  string
		inner Bounds
		want  bool
	}{
		{"fully inside", Bounds{2, 8, 2, 8}, true},
		{"identical", outer, true},
		{"pokes out north", Bounds{2, 11, 2, 8}, false},
		{"pokes out west", Bounds{2, 8, -1, 8}, false},
		{"disjoint", Bounds{20, 30, 20, 30}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := outer.Contains(tc.inner); got != tc.want {
				t.Fatalf("Contains(%+v) = %v, want %v", tc.inner, got, tc.want)
			}
		})
	}
}

func TestContainsPoint(t *testing.T) {
	b := Bounds{MinLat: 40.70, MaxLat: 40.80, MinLon: -74.00, MaxLon: -73.90}
	if !b.ContainsPoint(40.75, -73.95) {
		t.Fatal("point inside reported as outside")
	}
	if b.ContainsPoint(40.85, -73.95) {
		t.Fatal("point north of bounds reported as inside")
	}
	if b.ContainsPoint(40.75, -74.05) {
		t.Fatal("point west of bounds reported as inside")
	}
}

func TestAreaRatioTracksZoom(t *testing.T) {
	wide := Bounds{MinLat: 40.0, MaxLat: 41.0, MinLon: -75.0, MaxLon: -74.0}
	// Half the span on each axis, same center: a quarter of the area.
	narrow := Bounds{MinLat: 40.25, MaxLat: 40.75, MinLon: -74.75, MaxLon: -74.25}

	ratio := wide.AreaKm2() / narrow.AreaKm2()
	if ratio < 3.9 || ratio > 4.1 {
		t.Fatalf("area ratio = %v, want ~4", ratio)
	}
}

func TestCenter(t *testing.T) {
	b := Bounds{MinLat: 40.70, MaxLat: 40.80, MinLon: -74.00, MaxLon: -73.90}
	lat, lon := b.Center()
	if math.Abs(lat-40.75) > 1e-9 || math.Abs(lon-(-73.95)) > 1e-9 {
		t.Fatalf("Center() = %v,%v, want 40.75,-73.95", lat, lon)
	}
}
