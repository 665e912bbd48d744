package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refverify/engine/internal/domain"
)

func TestCacheKey(t *testing.T) {
	t.Run("joins every structured field present", func(t *testing.T) {
		ref := &domain.ParsedReference{DOI: "10.1038/ABC", PMID: "123", Title: "X", Year: 2020}
		assert.Equal(t, "doi:10.1038/abc|pmid:123|title:x|year:2020", CacheKey(ref))
	})

	t.Run("two references sharing a DOI but differing in title do not collide", func(t *testing.T) {
		a := &domain.ParsedReference{DOI: "10.1038/abc", Title: "First Title", Year: 2020}
		b := &domain.ParsedReference{DOI: "10.1038/abc", Title: "Second Title", Year: 2020}
		assert.NotEqual(t, CacheKey(a), CacheKey(b))
	})

	t.Run("falls back to PMID alone", func(t *testing.T) {
		ref := &domain.ParsedReference{PMID: "123"}
		assert.Equal(t, "pmid:123", CacheKey(ref))
	})

	t.Run("falls back to title alone", func(t *testing.T) {
		ref := &domain.ParsedReference{Title: "A Study Of Things"}
		assert.Equal(t, "title:a study of things", CacheKey(ref))
	})

	t.Run("falls back to year alone", func(t *testing.T) {
		ref := &domain.ParsedReference{Year: 2020}
		assert.Equal(t, "year:2020", CacheKey(ref))
	})

	t.Run("falls back to raw text prefix when nothing structured is present", func(t *testing.T) {
		ref := &domain.ParsedReference{RawText: "Some unstructured citation text"}
		assert.Equal(t, "raw:some unstructured citation text", CacheKey(ref))
	})
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := c.Get("doi:10.1038/x")
		assert.False(t, ok)
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		result := &domain.VerificationResult{ReferenceNumber: 1, Status: domain.StatusVerified, Confidence: 0.9}
		c.Put("doi:10.1038/x", result)

		got, ok := c.Get("doi:10.1038/x")
		require.True(t, ok)
		assert.Equal(t, domain.StatusVerified, got.Status)
		assert.Equal(t, 0.9, got.Confidence)
	})

	t.Run("mutating the returned result does not corrupt the cache", func(t *testing.T) {
		result := &domain.VerificationResult{ReferenceNumber: 2, Discrepancies: []string{"a"}}
		c.Put("key2", result)

		got, _ := c.Get("key2")
		got.Discrepancies[0] = "mutated"

		again, _ := c.Get("key2")
		assert.Equal(t, "a", again.Discrepancies[0])
	})
}
