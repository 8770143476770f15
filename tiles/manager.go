package tiles

import (
	"context"
	"image"
	"log"
	"sync"

	"servicemap/tiles/worker"
)

// Manager caches tiles and loads missing ones asynchronously through a
// worker pool. Tile returns immediately: the cached image when present,
// a placeholder otherwise, with the real load kicked off in the
// background and announced via the onLoad callback.
type Manager struct {
	provider Provider
	pool     *worker.Pool
	logf     func(string, ...any)

	mu           sync.RWMutex
	cache        map[string]image.Image
	loading      map[string]bool
	placeholders map[string]image.Image
	onLoad       func()
}

func NewManager(provider Provider, pool *worker.Pool) *Manager {
	return &Manager{
		provider:     provider,
		pool:         pool,
		logf:         log.Printf,
		cache:        make(map[string]image.Image),
		loading:      make(map[string]bool),
		placeholders: make(map[string]image.Image),
	}
}

// SetOnLoadCallback registers a function called whenever a background
// load lands, typically to invalidate the window.
func (m *Manager) SetOnLoadCallback(callback func()) {
	m.onLoad = callback
}

// SetLogf redirects progress messages, mainly for tests.
func (m *Manager) SetLogf(logf func(string, ...any)) {
	if logf != nil {
		m.logf = logf
	}
}

// Tile returns the best image available for the tile right now.
func (m *Manager) Tile(tile Tile) image.Image {
	key := tile.Key()

	m.mu.RLock()
	img, cached := m.cache[key]
	loading := m.loading[key]
	m.mu.RUnlock()

	if cached {
		return img
	}
	if !loading {
		m.startLoad(tile, key)
	}
	return m.placeholder(tile, key)
}

func (m *Manager) startLoad(tile Tile, key string) {
	m.mu.Lock()
	if m.loading[key] {
		m.mu.Unlock()
		return
	}
	m.loading[key] = true
	m.mu.Unlock()

	accepted := m.pool.Submit(worker.Task{
		Work: func(ctx context.Context) error {
			img, err := m.provider.GetTile(ctx, tile)

			m.mu.Lock()
			delete(m.loading, key)
			if err == nil {
				m.cache[key] = img
				delete(m.placeholders, key)
			}
			m.mu.Unlock()

			if err != nil {
				m.logf("tiles: load %s: %v", key, err)
				return err
			}
			if m.onLoad != nil {
				m.onLoad()
			}
			return nil
		},
	})
	if !accepted {
		// Queue full; a later frame will resubmit.
		m.mu.Lock()
		delete(m.loading, key)
		m.mu.Unlock()
	}
}

func (m *Manager) placeholder(tile Tile, key string) image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img, ok := m.placeholders[key]; ok {
		return img
	}
	img := Placeholder(tile)
	m.placeholders[key] = img
	return img
}
