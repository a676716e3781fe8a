// Package cache stores search responses for a short TTL so repeated queries
// within the window skip the upstream provider.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey builds the cache key for a search: query, result count and
// language. An empty language is keyed as "auto".
func SearchKey(query string, count int, lang string) string {
	if lang == "" {
		lang = "auto"
	}
	return fmt.Sprintf("%s-%d-%s", query, count, lang)
}

// fileName maps an arbitrary key to a filesystem-safe name
func fileName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return "verinews-v1-" + hex.EncodeToString(hash[:]) + ".cache"
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
