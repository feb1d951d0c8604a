package glycan

import "sync"

type parsed struct {
	canonical   string
	fingerprint Fingerprint
	err         error
}

// structureCache memoises parse results per normalised notation. Peak tables
// repeat the same handful of structures many times.
type structureCache struct {
	mu      sync.RWMutex
	limit   int
	entries map[string]parsed
}

func newStructureCache(limit int) *structureCache {
	if limit <= 0 {
		return nil
	}
	return &structureCache{
		limit:   limit,
		entries: make(map[string]parsed),
	}
}

func (c *structureCache) get(key string) (parsed, bool) {
	if c == nil {
		return parsed{}, false
	}
	c.mu.RLock()
	p, ok := c.entries[key]
	c.mu.RUnlock()
	return p, ok
}

func (c *structureCache) put(key string, p parsed) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if len(c.entries) >= c.limit {
		c.entries = make(map[string]parsed)
	}
	c.entries[key] = p
	c.mu.Unlock()
}

func (c *structureCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
