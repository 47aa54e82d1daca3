package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/apiflow/converter"
)

// documentInput represents the three ways an API description can be
// provided to a tool. Exactly one of File, URL, or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an API description on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an API description from"`
	Content string `json:"content,omitempty" jsonschema:"Inline API description (JSON or YAML; RAML with its header line)"`
}

// uri returns the location the document is read from. Inline content has
// none.
func (d documentInput) uri() string {
	if d.File != "" {
		return d.File
	}
	return d.URL
}

// check enforces the exactly-one rule and the inline size limit.
func (d documentInput) check() error {
	count := 0
	for _, v := range []string{d.File, d.URL, d.Content} {
		if v != "" {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if d.Content != "" && int64(len(d.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APIFLOW_MCP_MAX_INLINE_SIZE to increase",
			len(d.Content), cfg.MaxInlineSize)
	}
	return nil
}

// text returns the raw document text, fetching file and URL inputs.
func (d documentInput) text(ctx context.Context, conv *converter.Converter) ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.Content != "" {
		return []byte(d.Content), nil
	}
	return conv.Fetch(ctx, d.uri())
}

// cacheEntry holds a loaded document with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *converter.Result
	insertAt  time.Time
	expiresAt time.Time
}

// documentCache is a session-scoped cache of loaded documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Entries have per-type TTLs and a background sweeper removes expired entries.
type documentCache struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

func newDocumentCache(maxSize int) *documentCache {
	return &documentCache{entries: make(map[string]*cacheEntry), maxSize: maxSize}
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *documentCache) get(key string) *converter.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		e.insertAt = time.Now()
		return e.result
	}
	return nil
}

// putWithTTL stores a result with a specific TTL, evicting the oldest entry if at capacity.
func (c *documentCache) putWithTTL(key string, result *converter.Result, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *documentCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper; it stops when ctx
// is cancelled.
func (c *documentCache) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// size returns the number of cached entries.
func (c *documentCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given input, or "" when the
// input cannot be cached.
func makeCacheKey(d documentInput) (string, time.Duration) {
	switch {
	case d.File != "":
		absPath, err := filepath.Abs(d.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case d.Content != "":
		h := sha256.Sum256([]byte(d.Content))
		return "content:" + hex.EncodeToString(h[:]), cfg.CacheContentTTL
	case d.URL != "":
		return "url:" + d.URL, cfg.CacheURLTTL
	default:
		return "", 0
	}
}

// load detects, loads, parses and resolves the document, answering from
// the cache when it can.
func (s *Server) load(ctx context.Context, d documentInput) (*converter.Result, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key, ttl = makeCacheKey(d)
	}
	if key != "" {
		if cached := s.cache.get(key); cached != nil {
			return cached, nil
		}
	}

	var (
		result *converter.Result
		err    error
	)
	if d.Content != "" {
		result, err = s.conv.LoadContent(ctx, []byte(d.Content), "")
	} else {
		result, err = s.conv.Load(ctx, d.uri())
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		s.cache.putWithTTL(key, result, ttl)
	}
	return result, nil
}
