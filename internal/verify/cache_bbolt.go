package verify

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/refverify/engine/internal/domain"
)

var cacheBucket = []byte("verification_results")

// BoltCache is an optional persistent Cache backed by a bbolt file on
// disk. It satisfies the same key discipline as MemoryCache; callers
// choose it by setting CacheConfig.Path, never by default.
type BoltCache struct {
	db *bbolt.DB
}

// NewBoltCache opens (or creates) a bbolt database at path.
func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Close releases the underlying database file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Get deserializes the cached result, if present.
func (c *BoltCache) Get(key string) (*domain.VerificationResult, bool) {
	var result *domain.VerificationResult
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(cacheBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		var r domain.VerificationResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		result = &r
		return nil
	})
	if err != nil || result == nil {
		return nil, false
	}
	return result, true
}

// Put serializes result under key, overwriting any existing entry.
func (c *BoltCache) Put(key string, result *domain.VerificationResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(key), raw)
	})
}
