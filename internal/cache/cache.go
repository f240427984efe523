// Package cache stores extraction results keyed by content hash.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

const keyPrefix = "scout:v1:"

// Cache is a byte-oriented key/value store with per-entry TTL.
// A zero TTL means the implementation's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a namespace and the content being processed
func Key(namespace, content string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + content))
	return keyPrefix + namespace + ":" + hex.EncodeToString(hash[:])
}

// GetJSON decodes a cached JSON value into v.
// Returns false on a miss or when the entry no longer decodes.
func GetJSON(c Cache, key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(key)
		return false
	}
	return true
}

// SetJSON stores v as JSON
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrap(err, "cache: marshal value")
	}
	return c.Set(key, data, ttl)
}

// New builds the cache described by the config values: a memory cache alone
// when dir is empty, otherwise memory layered over disk.
func New(dir string, memoryTTL, diskTTL time.Duration) Cache {
	if dir == "" {
		return NewMemoryCache(memoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(memoryTTL, dir, diskTTL)
}
