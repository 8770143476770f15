package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"net/http"
)

// Provider supplies basemap tile images.
type Provider interface {
	GetTile(ctx context.Context, tile Tile) (image.Image, error)
}

// OSMProvider fetches tiles from an OpenStreetMap-compatible tile server.
type OSMProvider struct {
	baseURL string
	client  *http.Client
}

func NewOSMProvider(baseURL string) *OSMProvider {
	if baseURL == "" {
		baseURL = "https://tile.openstreetmap.org"
	}
	return &OSMProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (p *OSMProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.TileURL(tile), nil)
	if err != nil {
		return nil, err
	}
	// OSM tile usage policy wants an identifying agent.
	req.Header.Set("User-Agent", "servicemap/1.0")
	req.Header.Set("Accept", "image/png,image/webp,*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile %s: unexpected status %d", tile.Key(), resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tile %s: decode: %w", tile.Key(), err)
	}
	return img, nil
}

// TileURL returns the URL for downloading the map tile.
func (p *OSMProvider) TileURL(tile Tile) string {
	return fmt.Sprintf("%s/%d/%d/%d.png", p.baseURL, tile.Zoom, tile.X, tile.Y)
}
