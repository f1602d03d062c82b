// Package dedup keeps a small on-disk memory of posting URLs seen in
// previous runs, so the orchestrator can tell cheap cross-run duplicates
// apart without a store round-trip. The store's uniqueness constraint stays
// the source of truth; this is only a hint.
package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache is a persisted set of URLs with an expiry window.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	maxAge   time.Duration
	seen     map[string]int64
}

const defaultMaxAge = 30 * 24 * time.Hour

// NewSeenCache creates or loads the cache under cacheDir. maxAge <= 0 keeps
// entries for 30 days.
func NewSeenCache(cacheDir string, maxAge time.Duration) *SeenCache {
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		maxAge:   maxAge,
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSeen reports whether the URL was recorded in a previous run.
func (c *SeenCache) IsSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[url]
	return exists
}

// Add records the URLs and flushes to disk when anything changed.
func (c *SeenCache) Add(urls []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := c.seen[url]; !exists {
			c.seen[url] = now
			changed = true
		}
	}
	if changed {
		c.save()
	}
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen-jobs cache: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen-jobs cache: %v", err)
		return
	}

	cutoff := time.Now().Add(-c.maxAge).UnixMilli()
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
		}
	}
}

// save writes the map back out; caller holds the lock.
func (c *SeenCache) save() {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen-jobs cache: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen-jobs cache: %v", err)
	}
}
