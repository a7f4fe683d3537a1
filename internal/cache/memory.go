package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultShards is the shard count used when NewMemoryStore is given none.
const DefaultShards = 16

// MemoryStore keeps entries in process memory, split across independently
// locked go-cache shards. Each shard's janitor purges expired entries every
// sweep interval; reads also check expiry so a stale entry is never served
// between sweeps.
type MemoryStore struct {
	shards []*gocache.Cache
	now    func() time.Time
}

// NewMemoryStore creates a store with the given number of shards. A sweep
// interval of zero or less disables the background janitor.
func NewMemoryStore(shards int, sweepInterval time.Duration) *MemoryStore {
	if shards <= 0 {
		shards = DefaultShards
	}
	if sweepInterval <= 0 {
		sweepInterval = -1
	}

	s := &MemoryStore{
		shards: make([]*gocache.Cache, shards),
		now:    time.Now,
	}
	for i := range s.shards {
		s.shards[i] = gocache.New(gocache.NoExpiration, sweepInterval)
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	shard := s.shard(key)

	x, found := shard.Get(key)
	if !found {
		return Entry{}, false, nil
	}

	entry, ok := x.(Entry)
	if !ok || entry.Expired(s.now()) {
		shard.Delete(key)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Set implements Store. Entries that are already expired are not stored.
func (s *MemoryStore) Set(_ context.Context, entry Entry) error {
	if entry.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidEntry)
	}

	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	entry.Batch = cloneBatch(entry.Batch)
	s.shard(entry.Key).Set(entry.Key, entry, ttl)
	return nil
}

// Len returns the number of stored entries, including expired entries not
// yet swept.
func (s *MemoryStore) Len() int {
	n := 0
	for _, shard := range s.shards {
		n += shard.ItemCount()
	}
	return n
}

// Flush removes every entry.
func (s *MemoryStore) Flush() {
	for _, shard := range s.shards {
		shard.Flush()
	}
}

func (s *MemoryStore) shard(key string) *gocache.Cache {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}
