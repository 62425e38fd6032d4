// Package storage persists the video metadata cache between runs.
//
// The cache is a single JSON file holding two key spaces: playlist URL to
// resolved membership, and item lookup URL to a single record. It is read
// wholesale at startup and written wholesale at one checkpoint per run;
// there is no incremental flushing and no cross-process locking, so
// concurrent runs against the same cache file are not supported.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"slices"
	"time"

	"github.com/joodicator/youtube-sync-2/internal/video"
)

const schemaVersion = "1.0"

// Cache is the in-memory metadata cache. Entries always hold fully
// post-processed records; readers receive copies, so later enrichment of a
// live record never mutates a cached snapshot.
type Cache struct {
	path string
	data *cacheData
}

// cacheData is the top-level JSON structure.
type cacheData struct {
	Version   string                    `json:"version"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Playlists map[string][]video.Record `json:"playlists"`
	Items     map[string]video.Record   `json:"items"`
}

// Open loads the cache at path. A missing file is not an error and yields
// an empty cache; an unreadable or corrupt file is a startup fault.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.data = newCacheData()
			return c, nil
		}
		return nil, &StorageError{Op: "read", Key: path, Err: err}
	}

	c.data = &cacheData{}
	if err := json.Unmarshal(raw, c.data); err != nil {
		return nil, &StorageError{Op: "read", Key: path, Err: ErrCacheCorrupt}
	}
	if c.data.Playlists == nil {
		c.data.Playlists = make(map[string][]video.Record)
	}
	if c.data.Items == nil {
		c.data.Items = make(map[string]video.Record)
	}
	return c, nil
}

func newCacheData() *cacheData {
	return &cacheData{
		Version:   schemaVersion,
		Playlists: make(map[string][]video.Record),
		Items:     make(map[string]video.Record),
	}
}

// Playlist returns the cached membership for a playlist URL.
func (c *Cache) Playlist(url string) ([]video.Record, bool) {
	recs, ok := c.data.Playlists[url]
	if !ok {
		return nil, false
	}
	return slices.Clone(recs), true
}

// PutPlaylist stores the resolved membership for a playlist URL, replacing
// any previous entry.
func (c *Cache) PutPlaylist(url string, recs []video.Record) {
	c.data.Playlists[url] = slices.Clone(recs)
}

// Item returns the cached record for an item lookup key.
func (c *Cache) Item(key string) (video.Record, bool) {
	rec, ok := c.data.Items[key]
	return rec, ok
}

// PutItem stores the record for an item lookup key.
func (c *Cache) PutItem(key string, rec video.Record) {
	c.data.Items[key] = rec.Clone()
}

// Len returns the number of cached playlists and items.
func (c *Cache) Len() (playlists, items int) {
	return len(c.data.Playlists), len(c.data.Items)
}

// Save overwrites the persisted cache with the current in-memory mapping.
// The write is atomic: a temp file in the same directory is committed by
// rename, so an interrupted save never leaves a truncated cache behind.
func (c *Cache) Save() error {
	c.data.Version = schemaVersion
	c.data.UpdatedAt = time.Now()

	w, err := NewAtomicWriter(c.path)
	if err != nil {
		return &StorageError{Op: "write", Key: c.path, Err: err}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.data); err != nil {
		w.Abort()
		return &StorageError{Op: "write", Key: c.path, Err: err}
	}
	if err := w.Commit(); err != nil {
		return &StorageError{Op: "write", Key: c.path, Err: err}
	}
	return nil
}
