package cache

import (
	"github.com/dgraph-io/ristretto/v2"
)

// CachedSource memoizes Fetch results of an inner Source. A key's payload
// never changes once returned, so callers observe the same bytes whether or
// not a fetch was served from memory.
type CachedSource struct {
	inner Source
	cache *ristretto.Cache[uint64, []byte]
}

// NewCachedSource wraps inner with an in-memory cache bounded to roughly
// maxBytes of payload data.
func NewCachedSource(inner Source, maxBytes int64) (*CachedSource, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, []byte]{
		NumCounters: 1 << 20,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedSource{inner: inner, cache: c}, nil
}

func cacheKey(table, file uint32) uint64 {
	return uint64(table)<<32 | uint64(file)
}

func (s *CachedSource) Fetch(table, file uint32) ([]byte, error) {
	if data, ok := s.cache.Get(cacheKey(table, file)); ok {
		return data, nil
	}
	data, err := s.inner.Fetch(table, file)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey(table, file), data, int64(len(data)))
	return data, nil
}

func (s *CachedSource) FileIDs(table uint32) ([]uint32, error) {
	return s.inner.FileIDs(table)
}

// Wait blocks until pending cache admissions are applied. Mostly useful in
// tests; fetches are correct without it.
func (s *CachedSource) Wait() {
	s.cache.Wait()
}

func (s *CachedSource) Close() {
	s.cache.Close()
}
