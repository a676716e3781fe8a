package cache

import (
	"errors"
	"time"
)

// LayeredCache reads through a fast layer to a slow one and writes to both.
// A slow-layer hit is promoted into the fast layer.
type LayeredCache struct {
	fast     Cache
	slow     Cache
	promoTTL time.Duration
}

// NewLayeredCache pairs a memory cache with a disk cache under dir
func NewLayeredCache(ttl time.Duration, dir string) *LayeredCache {
	return &LayeredCache{
		fast:     NewMemoryCache(ttl, 0),
		slow:     NewDiskCache(dir, ttl),
		promoTTL: ttl,
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.fast.Get(key); found {
		return val, true
	}

	val, found := c.slow.Get(key)
	if !found {
		return nil, false
	}
	// The promoted copy may outlive the disk entry by at most promoTTL.
	_ = c.fast.Set(key, val, c.promoTTL)
	return val, true
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.fast.Set(key, value, ttl); err != nil {
		return err
	}
	return c.slow.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.fast.Delete(key), c.slow.Delete(key))
}

func (c *LayeredCache) Clear() error {
	return errors.Join(c.fast.Clear(), c.slow.Clear())
}
