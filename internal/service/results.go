package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/contentflow-ai/platform/internal/model"
)

// defaultResultCapacity bounds how many results the cache retains for clients
// that never reuse a session token.
const defaultResultCapacity = 1024

// ResultCache holds generated results for the download action. Each result's
// JSON encoding is frozen at store time so the download round-trips exactly
// what was returned to the client. A newer result from the same session
// supersedes the older one, and once the capacity is reached the oldest
// result is evicted.
type ResultCache struct {
	mu        sync.RWMutex
	capacity  int
	order     []string
	byID      map[string]*cachedResult
	bySession map[string]string
}

type cachedResult struct {
	result  *model.GenerationResult
	raw     []byte
	session string
}

// NewResultCache creates a result cache with the default capacity.
func NewResultCache() *ResultCache {
	return NewResultCacheWithCapacity(defaultResultCapacity)
}

// NewResultCacheWithCapacity creates a result cache retaining at most capacity
// results.
func NewResultCacheWithCapacity(capacity int) *ResultCache {
	if capacity < 1 {
		capacity = defaultResultCapacity
	}
	return &ResultCache{
		capacity:  capacity,
		byID:      make(map[string]*cachedResult),
		bySession: make(map[string]string),
	}
}

// Put stores a result under its ID and session, evicting any previous result
// of the same session and, when full, the oldest result overall.
func (c *ResultCache) Put(session string, result *model.GenerationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.bySession[session]; ok {
		delete(c.byID, prev)
	}
	c.byID[result.ID] = &cachedResult{
		result:  result,
		raw:     raw,
		session: session,
	}
	c.bySession[session] = result.ID
	c.order = append(c.order, result.ID)

	// The order queue may hold IDs already removed by supersession; skip them.
	for len(c.byID) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		r, ok := c.byID[oldest]
		if !ok || oldest == result.ID {
			continue
		}
		delete(c.byID, oldest)
		if c.bySession[r.session] == oldest {
			delete(c.bySession, r.session)
		}
	}
	return nil
}

// Raw returns the frozen JSON encoding of a result.
func (c *ResultCache) Raw(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if r, ok := c.byID[id]; ok {
		return r.raw, true
	}
	return nil, false
}

// Get returns a stored result.
func (c *ResultCache) Get(id string) (*model.GenerationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if r, ok := c.byID[id]; ok {
		return r.result, true
	}
	return nil, false
}
