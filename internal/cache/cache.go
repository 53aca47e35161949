// Package cache keeps the IP geolocation result on disk so the status bar
// binary does not hit the network on every refresh. Prayer times themselves
// are computed locally and never cached here.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/prayer-times/internal/geo"
)

const (
	geoCacheFile = "geolocation.json"
	geoTTL       = 24 * time.Hour
)

// Cache provides file-based caching for geolocation data.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/prayer-times/ (or $XDG_CACHE_HOME).
func New(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine cache directory: %w", err)
		}
		dir = filepath.Join(base, "prayer-times")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, ttl: geoTTL, now: time.Now}, nil
}

// Dir returns the directory the cache writes to.
func (c *Cache) Dir() string {
	return c.dir
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing, unreadable or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if c.now().Sub(entry.CachedAt) > c.ttl {
		return nil
	}
	if entry.Location.Coordinates().Validate() != nil {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: c.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}

// ClearGeo removes the cached geolocation, forcing a fresh lookup.
func (c *Cache) ClearGeo() error {
	err := os.Remove(filepath.Join(c.dir, geoCacheFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear geo cache: %w", err)
	}
	return nil
}
