package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const entryExt = ".json"

// FileCache stores geocoding responses as one JSON file per key with a TTL
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type cacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFileCache creates the cache directory if needed. A zero ttl disables
// storage: Set is a no-op and Get always misses.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	return &FileCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (c *FileCache) filename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+entryExt)
}

// load reads an entry, removing it when it is corrupt or expired
func (c *FileCache) load(filename string) (cacheEntry, bool) {
	var entry cacheEntry

	// #nosec G304 -- filename is derived from a hash or listed from the cache directory
	data, err := os.ReadFile(filename)
	if err != nil {
		return entry, false
	}

	if err := json.Unmarshal(data, &entry); err != nil || c.now().After(entry.ExpiresAt) {
		_ = os.Remove(filename)
		return entry, false
	}

	return entry, true
}

// Get retrieves a value from the cache
func (c *FileCache) Get(key string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	entry, ok := c.load(c.filename(key))
	if !ok || entry.Key != key {
		return nil, false
	}
	return entry.Data, true
}

// Set stores a value in the cache
func (c *FileCache) Set(key string, value []byte) error {
	if c.ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(cacheEntry{
		Key:       key,
		Data:      value,
		ExpiresAt: c.now().Add(c.ttl),
	})
	if err != nil {
		return err
	}

	return os.WriteFile(c.filename(key), data, 0600)
}

// Clear removes all cache entries
func (c *FileCache) Clear() error {
	return c.walk(func(filename string) {
		_ = os.Remove(filename)
	})
}

// Cleanup removes expired and corrupt entries and reports how many remain
func (c *FileCache) Cleanup() (int, error) {
	remaining := 0
	err := c.walk(func(filename string) {
		if _, ok := c.load(filename); ok {
			remaining++
		}
	})
	return remaining, err
}

func (c *FileCache) walk(fn func(filename string)) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != entryExt {
			continue
		}
		fn(filepath.Join(c.dir, entry.Name()))
	}

	return nil
}
