package icons

import (
	"image/color"
	"testing"
)

func TestMarkerMemoization(t *testing.T) {
	f := New()
	a := f.Marker("#FF6B6B", 'F')
	b := f.Marker("#FF6B6B", 'F')
	if a != b {
		t.Fatal("same color+symbol must return the cached image")
	}

	c := f.Marker("#FF6B6B", 'S')
	if a == c {
		t.Fatal("different symbol must render a new image")
	}
	d := f.Marker("#4DABF7", 'F')
	if a == d {
		t.Fatal("different color must render a new image")
	}
	// Case-insensitive on the hex string.
	e := f.Marker("#ff6b6b", 'F')
	if a != e {
		t.Fatal("hex case must not defeat memoization")
	}
}

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF6B6B", color.RGBA{0xFF, 0x6B, 0x6B, 255}},
		{"4dabf7", color.RGBA{0x4D, 0xAB, 0xF7, 255}},
		{"", color.RGBA{108, 117, 125, 255}},
		{"#zzz", color.RGBA{108, 117, 125, 255}},
	}
	for _, tc := range cases {
		if got := parseHex(tc.in); got != tc.want {
			t.Fatalf("parseHex(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMarkerHasFillAndRim(t *testing.T) {
	f := New()
	img := f.Marker("#FF6B6B", 0)
	bounds := img.Bounds()
	if bounds.Dx() != MarkerSize || bounds.Dy() != MarkerSize {
		t.Fatalf("marker size %v, want %dx%d", bounds, MarkerSize, MarkerSize)
	}
	// Center pixel carries the fill color.
	r, g, b, _ := img.At(MarkerSize/2, MarkerSize/2).RGBA()
	if uint8(r>>8) != 0xFF || uint8(g>>8) != 0x6B || uint8(b>>8) != 0x6B {
		t.Fatalf("center pixel = %v,%v,%v, want fill color", r>>8, g>>8, b>>8)
	}
	// Corner stays transparent (the disc is round).
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Fatal("corner pixel should be transparent")
	}
}
