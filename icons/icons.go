// Package icons renders circular map marker badges, memoized by color and
// symbol so panning never redraws the same marker twice.
package icons

import (
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MarkerSize is the badge diameter in pixels.
const MarkerSize = 24

type key struct {
	color  string
	symbol rune
}

// Factory hands out marker images. Safe for concurrent use.
type Factory struct {
	mu    sync.Mutex
	cache map[key]image.Image
}

func New() *Factory {
	return &Factory{cache: make(map[key]image.Image)}
}

// Marker returns the badge for the given hex color ("#RRGGBB") and symbol
// rune. Repeated calls with the same arguments return the same image.
func (f *Factory) Marker(colorHex string, symbol rune) image.Image {
	k := key{color: strings.ToUpper(colorHex), symbol: symbol}

	f.mu.Lock()
	defer f.mu.Unlock()
	if img, ok := f.cache[k]; ok {
		return img
	}
	img := render(parseHex(colorHex), symbol)
	f.cache[k] = img
	return img
}

func render(fill color.RGBA, symbol rune) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, MarkerSize, MarkerSize))

	// Filled disc with a thin white rim.
	const r = MarkerSize / 2
	rim := color.RGBA{255, 255, 255, 255}
	for y := 0; y < MarkerSize; y++ {
		for x := 0; x < MarkerSize; x++ {
			dx := float64(x) - r + 0.5
			dy := float64(y) - r + 0.5
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= (r-2)*(r-2):
				img.SetRGBA(x, y, fill)
			case d2 <= r*r:
				img.SetRGBA(x, y, rim)
			}
		}
	}

	if symbol != 0 {
		drawSymbol(img, symbol)
	}
	return img
}

func drawSymbol(img *image.RGBA, symbol rune) {
	text := string(symbol)
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()
	d.Dot = fixed.Point26_6{
		X: fixed.I((MarkerSize - textWidth) / 2),
		Y: fixed.I((MarkerSize + textHeight) / 2),
	}
	d.DrawString(text)
}

// parseHex parses "#RRGGBB"; anything unparsable falls back to gray so a
// missing category color still yields a visible marker.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{108, 117, 125, 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{108, 117, 125, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
