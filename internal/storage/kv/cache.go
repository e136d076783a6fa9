package kv

import (
	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
)

// CachedStore wraps a Store with a read-through ristretto cache over the
// meta column family, the one under the driver's hot path (term/entry
// lookups during replication). Other column families bypass the cache:
// cluster/mqtt reads are driven by client requests, not the ready-cycle
// loop, and don't benefit from the same working set.
type CachedStore struct {
	*Store
	cache *ristretto.Cache
}

// NewCachedStore wraps store with an in-memory cache sized for roughly
// maxCost bytes of entries.
func NewCachedStore(store *Store, maxCost int64) (*CachedStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost / 100 * 10, // ~10x the expected entry count
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "kv: new cache")
	}
	return &CachedStore{Store: store, cache: c}, nil
}

func (s *CachedStore) cacheKey(key []byte) string {
	return string(key)
}

// Read serves meta-CF reads from the cache when possible, falling back to
// and populating from the engine otherwise. Every other column family is
// read straight through to Store.Read.
func (s *CachedStore) Read(cf string, key []byte) ([]byte, bool, error) {
	if cf != CFMeta {
		return s.Store.Read(cf, key)
	}
	if v, ok := s.cache.Get(s.cacheKey(key)); ok {
		if v == nil {
			return nil, false, nil
		}
		return v.([]byte), true, nil
	}
	v, ok, err := s.Store.Read(cf, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		s.cache.Set(s.cacheKey(key), v, int64(len(v)))
	}
	return v, ok, nil
}

// Write invalidates the cached copy before delegating, since a stale cache
// entry for a just-overwritten index would be worse than no cache at all.
func (s *CachedStore) Write(cf string, key, value []byte) error {
	if cf == CFMeta {
		s.cache.Del(s.cacheKey(key))
	}
	return s.Store.Write(cf, key, value)
}

// Delete invalidates then delegates, mirroring Write.
func (s *CachedStore) Delete(cf string, key []byte) error {
	if cf == CFMeta {
		s.cache.Del(s.cacheKey(key))
	}
	return s.Store.Delete(cf, key)
}

// Close flushes the cache's background workers before closing the engine.
func (s *CachedStore) Close() error {
	s.cache.Close()
	return s.Store.Close()
}
