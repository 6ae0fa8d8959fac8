package logging

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedStore memoizes query results of another store for ttl. Every Append
// flushes the cache, so a reader never misses a batch written through it.
type CachedStore struct {
	LogStore
	cache *gocache.Cache
}

// NewCachedStore wraps store. Expired entries are purged every 2*ttl.
func NewCachedStore(store LogStore, ttl time.Duration) *CachedStore {
	return &CachedStore{LogStore: store, cache: gocache.New(ttl, 2*ttl)}
}

func (s *CachedStore) Append(ctx context.Context, rec LogRecord) error {
	defer s.cache.Flush()
	return s.LogStore.Append(ctx, rec)
}

func (s *CachedStore) Query(ctx context.Context, q LogQuery) ([]LogRecord, error) {
	key := q.key()
	if v, ok := s.cache.Get(key); ok {
		if recs, ok := v.([]LogRecord); ok {
			return append([]LogRecord(nil), recs...), nil
		}
	}
	recs, err := s.LogStore.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, append([]LogRecord(nil), recs...))
	return recs, nil
}

func (q LogQuery) key() string {
	return fmt.Sprintf("%d|%d|%s|%s|%s", q.Start.UnixNano(), q.End.UnixNano(), q.BatchID, q.Dish, q.Station)
}
