package tiles

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder renders a flat stand-in tile shown while the real tile is
// still loading (or unreachable). Labeled with the tile coordinates so a
// broken provider is easy to spot.
func Placeholder(tile Tile) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))

	bgColor := color.RGBA{222, 226, 230, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bgColor}, image.Point{}, draw.Src)

	drawTileLabel(img, tile)

	borderColor := color.RGBA{173, 181, 189, 255}
	borders := []image.Rectangle{
		image.Rect(0, 0, TileSize, 1),
		image.Rect(0, TileSize-1, TileSize, TileSize),
		image.Rect(0, 0, 1, TileSize),
		image.Rect(TileSize-1, 0, TileSize, TileSize),
	}
	for _, rect := range borders {
		draw.Draw(img, rect, &image.Uniform{borderColor}, image.Point{}, draw.Src)
	}

	return img
}

func drawTileLabel(img *image.RGBA, tile Tile) {
	text := fmt.Sprintf("%d/%d/%d", tile.Zoom, tile.X, tile.Y)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{108, 117, 125, 255}),
		Face: face,
	}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()

	d.Dot = fixed.Point26_6{
		X: fixed.I((TileSize - textWidth) / 2),
		Y: fixed.I((TileSize + textHeight) / 2),
	}
	d.DrawString(text)
}
