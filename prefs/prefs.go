// Package prefs persists UI preferences (language, theme) in a small
// SQLite database. Deliberately separate from the map engine, whose cache
// is memory-only and never survives a restart.
package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed key/value preference store.
type Store struct {
	db *sql.DB
}

// Preference keys.
const (
	keyLanguage  = "language"
	keyTheme     = "theme"
	keyCenterLat = "center_lat"
	keyCenterLng = "center_lng"
	keyZoom      = "zoom"
)

// Open opens (and if needed initializes) the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("prefs path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping prefs db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init prefs schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Language returns the stored UI language, or fallback when unset.
func (s *Store) Language(fallback string) (string, error) {
	return s.get(keyLanguage, fallback)
}

func (s *Store) SetLanguage(lang string) error {
	return s.set(keyLanguage, lang)
}

// Theme returns the stored UI theme, or fallback when unset.
func (s *Store) Theme(fallback string) (string, error) {
	return s.get(keyTheme, fallback)
}

func (s *Store) SetTheme(theme string) error {
	return s.set(keyTheme, theme)
}

// View returns the saved map camera, or the fallbacks when unset or
// unparsable. A corrupt value is not worth failing startup over.
func (s *Store) View(lat, lng float64, zoom int) (float64, float64, int) {
	if v, err := s.get(keyCenterLat, ""); err == nil && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			lat = f
		}
	}
	if v, err := s.get(keyCenterLng, ""); err == nil && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			lng = f
		}
	}
	if v, err := s.get(keyZoom, ""); err == nil && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			zoom = n
		}
	}
	return lat, lng, zoom
}

// SetView saves the map camera for the next session.
func (s *Store) SetView(lat, lng float64, zoom int) error {
	if err := s.set(keyCenterLat, strconv.FormatFloat(lat, 'f', -1, 64)); err != nil {
		return err
	}
	if err := s.set(keyCenterLng, strconv.FormatFloat(lng, 'f', -1, 64)); err != nil {
		return err
	}
	return s.set(keyZoom, strconv.Itoa(zoom))
}

func (s *Store) get(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("read preference %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write preference %q: %w", key, err)
	}
	return nil
}
