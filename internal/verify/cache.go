package verify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/refverify/engine/internal/domain"
)

// Cache stores VerificationResults keyed by CacheKey. Implementations
// must return a deep copy on Get so a caller mutating the result can
// never corrupt a cached entry.
type Cache interface {
	Get(key string) (*domain.VerificationResult, bool)
	Put(key string, result *domain.VerificationResult)
}

// CacheKey derives the deterministic lookup key for a parsed reference:
// every non-empty structured field (doi/pmid/title/year) joined by "|",
// falling back to a prefix of the raw text only when all of them are
// missing. Joining rather than taking the first hit keeps two references
// that share a DOI but differ in title or year from colliding on one
// cache entry.
func CacheKey(ref *domain.ParsedReference) string {
	var parts []string
	if ref.DOI != "" {
		parts = append(parts, "doi:"+strings.ToLower(ref.DOI))
	}
	if ref.PMID != "" {
		parts = append(parts, "pmid:"+ref.PMID)
	}
	if ref.Title != "" {
		title := ref.Title
		if len(title) > 50 {
			title = title[:50]
		}
		parts = append(parts, "title:"+strings.ToLower(title))
	}
	if ref.Year != 0 {
		parts = append(parts, fmt.Sprintf("year:%d", ref.Year))
	}
	if len(parts) > 0 {
		return strings.Join(parts, "|")
	}
	raw := ref.RawText
	if len(raw) > 100 {
		raw = raw[:100]
	}
	return "raw:" + strings.ToLower(raw)
}

// MemoryCache is the default cache: in-process, unbounded, never
// persisted to disk. This is the engine's default — no state survives a
// restart unless a caller explicitly wires in a persistent Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.VerificationResult
}

// NewMemoryCache builds an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*domain.VerificationResult)}
}

// Get returns a deep copy of the cached result, if present.
func (c *MemoryCache) Get(key string) (*domain.VerificationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return result.Clone(), true
}

// Put stores a deep copy of result under key.
func (c *MemoryCache) Put(key string, result *domain.VerificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result.Clone()
}
