package web

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "chronos/internal/log"
)

// parseCache keeps recent /api/parse responses keyed by source and locale.
// Entries expire after ttl; the whole cache is also dropped on the
// configured cron schedule so memory stays bounded for long-running servers.
type parseCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	status   int
	resp     parseResponse
	storedAt time.Time
}

func newParseCache(ttl time.Duration) *parseCache {
	return &parseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(source, locale string) string {
	sum := sha256.Sum256([]byte(locale + "\x00" + source))
	return hex.EncodeToString(sum[:])
}

func (c *parseCache) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return cacheEntry{}, false
	}
	return e, true
}

func (c *parseCache) put(key string, status int, resp parseResponse) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{status: status, resp: resp, storedAt: c.now()}
	c.mu.Unlock()
}

// purge drops every entry and returns how many were removed.
func (c *parseCache) purge() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return n
}

func (c *parseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// schedulePurge registers the cache purge on a new cron scheduler. The
// caller starts and stops it.
func (c *parseCache) schedulePurge(spec string) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() {
		n := c.purge()
		appLog.Debug("parse cache purged", "entries", n)
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}
