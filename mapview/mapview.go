// Package mapview renders the pannable map: basemap tiles underneath,
// service markers on top. Every camera movement is forwarded as a
// viewport so the data layer can decide whether to refetch.
package mapview

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"servicemap/catalog"
	"servicemap/engine"
	"servicemap/geo"
	"servicemap/icons"
	"servicemap/tiles"
)

type MapView struct {
	TileManager *tiles.Manager
	Center      tiles.LatLng
	Zoom        int
	MinZoom     int
	MaxZoom     int

	// OnViewport receives the geographic viewport after every camera
	// change. Safe to leave nil.
	OnViewport func(geo.Viewport)

	// OnRetry fires when the user taps the status banner shown for
	// failed or offline states. Safe to leave nil.
	OnRetry func()

	size           image.Point
	visibleTiles   []tiles.Tile
	metersPerPixel float64 // cached calculation

	clickPos    f32.Point
	dragging    bool
	lastDragPos f32.Point
	released    bool

	markers    *icons.Factory
	banners    map[engine.Status]image.Image
	bannerRect image.Rectangle

	mu         sync.Mutex
	snapshot   engine.Snapshot
	categories map[string]catalog.Category
}

// New returns a view centered on lower Manhattan at a borough-level zoom.
func New(tm *tiles.Manager) *MapView {
	return &MapView{
		TileManager: tm,
		Center:      tiles.LatLng{Lat: 40.7128, Lng: -74.0060},
		Zoom:        13,
		MinZoom:     3,
		MaxZoom:     19,
		markers:     icons.New(),
		banners:     map[engine.Status]image.Image{},
		categories:  map[string]catalog.Category{},
	}
}

// SetCamera moves the camera, clamping zoom to the view's limits. Used
// when restoring a persisted position, which may carry values written by
// an older build.
func (mv *MapView) SetCamera(center tiles.LatLng, zoom int) {
	mv.Center = center
	mv.setZoom(zoom)
}

// SetSnapshot stores the latest visible records. Called from the data
// layer's goroutine; Layout reads it on the UI goroutine.
func (mv *MapView) SetSnapshot(s engine.Snapshot) {
	mv.mu.Lock()
	mv.snapshot = s
	mv.mu.Unlock()
}

// SetCategories installs marker colors and symbols by category slug.
func (mv *MapView) SetCategories(cats []catalog.Category) {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	mv.categories = make(map[string]catalog.Category, len(cats))
	for _, c := range cats {
		mv.categories[c.Slug] = c
	}
}

func (mv *MapView) currentStatus() engine.Status {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	return mv.snapshot.Status
}

func (mv *MapView) Layout(gtx layout.Context) layout.Dimensions {
	tag := mv
	moved := false

	// process events
	dragDelta := f32.Point{}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  tag,
			Kinds:   pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}

		x, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch x.Kind {
		case pointer.Press:
			if image.Pt(int(x.Position.X), int(x.Position.Y)).In(mv.bannerRect) {
				if mv.OnRetry != nil {
					mv.OnRetry()
				}
				break
			}
			mv.clickPos = x.Position
			mv.dragging = true
		case pointer.Scroll:
			// Mouse offset from the screen center.
			screenCenterX := float64(mv.size.X >> 1)
			screenCenterY := float64(mv.size.Y >> 1)
			mouseOffsetX := float64(x.Position.X) - screenCenterX
			mouseOffsetY := float64(x.Position.Y) - screenCenterY

			worldX, worldY := tiles.CalculateWorldCoordinates(mv.Center, float64(mv.Zoom))
			mouseWorldX := worldX + mouseOffsetX
			mouseWorldY := worldY + mouseOffsetY

			oldZoom := mv.Zoom
			if x.Scroll.Y < 0 {
				mv.setZoom(mv.Zoom + 1)
			} else if x.Scroll.Y > 0 {
				mv.setZoom(mv.Zoom - 1)
			}

			// Keep the point under the cursor fixed across the zoom.
			if oldZoom != mv.Zoom {
				zoomFactor := math.Pow(2, float64(mv.Zoom-oldZoom))
				newWorldX := mouseWorldX * zoomFactor
				newWorldY := mouseWorldY * zoomFactor

				newWorldCenterX := newWorldX - mouseOffsetX
				newWorldCenterY := newWorldY - mouseOffsetY

				mv.Center = tiles.WorldToLatLng(newWorldCenterX, newWorldCenterY, float64(mv.Zoom))
				mv.updateVisibleTiles()
				moved = true
			}
		case pointer.Drag:
			dragDelta = x.Position.Sub(mv.clickPos)
		case pointer.Release, pointer.Cancel:
			mv.dragging = false
			mv.released = true
		}
	}

	if mv.dragging {
		if mv.released {
			mv.lastDragPos = dragDelta
			mv.released = false
		}
		if dragDelta != mv.lastDragPos {
			deltaX := dragDelta.X - mv.lastDragPos.X
			deltaY := dragDelta.Y - mv.lastDragPos.Y

			// Convert screen movement to geographical coordinates using
			// the cached meters-per-pixel.
			latChange := float64(deltaY) * mv.metersPerPixel / 111319.9
			lngChange := -float64(deltaX) * mv.metersPerPixel / (111319.9 * math.Cos(mv.Center.Lat*math.Pi/180))

			mv.Center.Lat += latChange
			mv.Center.Lng += lngChange
			mv.updateVisibleTiles()
			mv.lastDragPos = dragDelta
			moved = true
		}
	}

	// Update size if changed. Also covers the first layout.
	if mv.size != gtx.Constraints.Max {
		mv.size = gtx.Constraints.Max
		mv.updateVisibleTiles()
		moved = true
	}

	if moved {
		mv.emitViewport()
	}

	// Confine the area of interest to gtx Max.
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)

	mv.drawTiles(gtx)
	mv.drawMarkers(gtx)
	mv.drawStatusBanner(gtx)

	return layout.Dimensions{Size: mv.size}
}

// drawStatusBanner shows the data layer's trouble states; tapping it
// triggers OnRetry. Healthy state draws nothing.
func (mv *MapView) drawStatusBanner(gtx layout.Context) {
	status := mv.currentStatus()
	if status == engine.StatusOK {
		mv.bannerRect = image.Rectangle{}
		return
	}

	img := mv.banner(status)
	origin := image.Point{X: 8, Y: 8}
	mv.bannerRect = image.Rectangle{Min: origin, Max: origin.Add(img.Bounds().Size())}

	transform := op.Offset(origin).Push(gtx.Ops)
	paint.NewImageOp(img).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	transform.Pop()
}

func (mv *MapView) banner(status engine.Status) image.Image {
	if img, ok := mv.banners[status]; ok {
		return img
	}
	img := renderBanner(statusLabel(status))
	mv.banners[status] = img
	return img
}

func statusLabel(status engine.Status) string {
	switch status {
	case engine.StatusOffline:
		return "offline"
	case engine.StatusTransportError:
		return "connection problem, tap to retry"
	case engine.StatusServerError:
		return "server problem, tap to retry"
	case engine.StatusClientError:
		return "request rejected, tap to retry"
	default:
		return ""
	}
}

const bannerHeight = 24

func renderBanner(text string) image.Image {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := d.MeasureString(text).Round() + 16

	img := image.NewRGBA(image.Rect(0, 0, width, bannerHeight))
	bg := color.RGBA{33, 37, 41, 230}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	d.Dst = img
	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.Point26_6{
		X: fixed.I(8),
		Y: fixed.I((bannerHeight + face.Metrics().Height.Round()) / 2),
	}
	d.DrawString(text)
	return img
}

func (mv *MapView) drawTiles(gtx layout.Context) {
	centerWorldPx, centerWorldPy := tiles.CalculateWorldCoordinates(mv.Center, float64(mv.Zoom))
	screenCenterX := mv.size.X >> 1
	screenCenterY := mv.size.Y >> 1

	for _, tile := range mv.visibleTiles {
		img := mv.TileManager.Tile(tile)

		tileWorldPx := float64(tile.X * tiles.TileSize)
		tileWorldPy := float64(tile.Y * tiles.TileSize)

		finalX := screenCenterX + int(tileWorldPx-centerWorldPx)
		finalY := screenCenterY + int(tileWorldPy-centerWorldPy)

		transform := op.Offset(image.Point{X: finalX, Y: finalY}).Push(gtx.Ops)
		paint.NewImageOp(img).Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		transform.Pop()
	}
}

func (mv *MapView) drawMarkers(gtx layout.Context) {
	mv.mu.Lock()
	records := mv.snapshot.Visible
	cats := mv.categories
	mv.mu.Unlock()

	if len(records) == 0 {
		return
	}

	centerWorldPx, centerWorldPy := tiles.CalculateWorldCoordinates(mv.Center, float64(mv.Zoom))
	screenCenterX := mv.size.X >> 1
	screenCenterY := mv.size.Y >> 1

	for _, r := range records {
		wx, wy := tiles.CalculateWorldCoordinates(tiles.LatLng{Lat: r.Latitude, Lng: r.Longitude}, float64(mv.Zoom))
		x := screenCenterX + int(wx-centerWorldPx)
		y := screenCenterY + int(wy-centerWorldPy)
		if x < -icons.MarkerSize || y < -icons.MarkerSize || x > mv.size.X+icons.MarkerSize || y > mv.size.Y+icons.MarkerSize {
			continue
		}

		colorHex, symbol := markerStyle(r, cats)
		img := mv.markers.Marker(colorHex, symbol)

		// Center the disc on the location.
		half := icons.MarkerSize / 2
		transform := op.Offset(image.Point{X: x - half, Y: y - half}).Push(gtx.Ops)
		paint.NewImageOp(img).Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		transform.Pop()
	}
}

// markerStyle picks color and symbol from the record's first service whose
// category we know about.
func markerStyle(r catalog.ServiceRecord, cats map[string]catalog.Category) (string, rune) {
	for _, s := range r.Services {
		c, ok := cats[s.Type]
		if !ok {
			continue
		}
		symbol := '?'
		for _, ch := range c.Name {
			symbol = unicode.ToUpper(ch)
			break
		}
		return c.ColorHex, symbol
	}
	return "", '?'
}

func (mv *MapView) emitViewport() {
	if mv.OnViewport == nil || mv.size == (image.Point{}) {
		return
	}
	mv.OnViewport(geo.Viewport{
		Bounds: tiles.ScreenBounds(mv.Center, mv.Zoom, mv.size),
		Zoom:   mv.Zoom,
	})
}

func (mv *MapView) setZoom(newZoom int) {
	mv.Zoom = max(mv.MinZoom, min(newZoom, mv.MaxZoom))
	mv.updateVisibleTiles()
}

func (mv *MapView) updateVisibleTiles() {
	mv.metersPerPixel = tiles.CalculateMetersPerPixel(mv.Center.Lat, mv.Zoom)
	mv.visibleTiles = tiles.CalculateVisibleTiles(mv.Center, mv.Zoom, mv.size)

	// Warm the cache for everything on screen.
	for _, tile := range mv.visibleTiles {
		mv.TileManager.Tile(tile)
	}
}
