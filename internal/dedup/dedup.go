// Package dedup tracks which snippets each viewer has already been shown so
// a feed never repeats itself within a session.
//
// State is memory-only and bounded in two directions: each viewer keeps at
// most Capacity fingerprints (oldest evicted first) and at most MaxViewers
// viewers are tracked (least recently active evicted first). Uniqueness is
// therefore a soft guarantee over very long sessions and does not survive a
// restart.
package dedup

import (
	"hash/fnv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/phrazzld/scry-feed/internal/domain"
)

// Defaults applied when New receives non-positive limits.
const (
	DefaultCapacity   = 500
	DefaultMaxViewers = 10000
)

const shardCount = 16

// Tracker holds one fingerprint set per viewer, spread over independently
// locked shards so unrelated viewers never contend.
type Tracker struct {
	capacity int
	shards   [shardCount]*lru.Cache[string, *viewerSet]
}

// New creates a Tracker remembering capacity fingerprints per viewer for at
// most maxViewers viewers.
func New(capacity, maxViewers int) (*Tracker, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxViewers <= 0 {
		maxViewers = DefaultMaxViewers
	}

	perShard := (maxViewers + shardCount - 1) / shardCount
	t := &Tracker{capacity: capacity}
	for i := range t.shards {
		c, err := lru.New[string, *viewerSet](perShard)
		if err != nil {
			return nil, err
		}
		t.shards[i] = c
	}
	return t, nil
}

// Filter returns the candidates the viewer has not seen yet, in order, along
// with the number dropped. Repeats within candidates count as duplicates.
// Filter never modifies the viewer's state.
func (t *Tracker) Filter(viewerKey string, candidates []string) ([]string, int) {
	set, _ := t.shard(viewerKey).Get(viewerKey)

	unique := make([]string, 0, len(candidates))
	batch := make(map[string]struct{}, len(candidates))
	duplicates := 0

	for _, candidate := range candidates {
		fp := domain.Fingerprint(candidate)
		if fp == "" {
			duplicates++
			continue
		}
		if _, dup := batch[fp]; dup {
			duplicates++
			continue
		}
		if set != nil && set.contains(fp) {
			duplicates++
			continue
		}
		batch[fp] = struct{}{}
		unique = append(unique, candidate)
	}

	return unique, duplicates
}

// Record adds the accepted snippets to the viewer's history. All snippets of
// one call are applied under the viewer's lock.
func (t *Tracker) Record(viewerKey string, accepted []string) {
	if len(accepted) == 0 {
		return
	}
	t.viewer(viewerKey).add(accepted)
}

// Seen returns how many fingerprints are remembered for the viewer.
func (t *Tracker) Seen(viewerKey string) int {
	set, ok := t.shard(viewerKey).Peek(viewerKey)
	if !ok {
		return 0
	}
	return set.len()
}

// Recorded returns how many non-empty Record calls the viewer has made. Unlike
// Seen it keeps growing after the history is full.
func (t *Tracker) Recorded(viewerKey string) uint64 {
	set, ok := t.shard(viewerKey).Peek(viewerKey)
	if !ok {
		return 0
	}
	return set.recordCount()
}

// Forget drops all state for the viewer.
func (t *Tracker) Forget(viewerKey string) {
	t.shard(viewerKey).Remove(viewerKey)
}

// Viewers returns the number of viewers currently tracked.
func (t *Tracker) Viewers() int {
	n := 0
	for _, s := range t.shards {
		n += s.Len()
	}
	return n
}

func (t *Tracker) shard(viewerKey string) *lru.Cache[string, *viewerSet] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(viewerKey))
	return t.shards[h.Sum32()%shardCount]
}

// viewer returns the viewer's set, creating it if needed. Concurrent first
// requests for the same viewer agree on a single set.
func (t *Tracker) viewer(viewerKey string) *viewerSet {
	shard := t.shard(viewerKey)
	if set, ok := shard.Get(viewerKey); ok {
		return set
	}
	fresh := newViewerSet(t.capacity)
	if prev, ok, _ := shard.PeekOrAdd(viewerKey, fresh); ok {
		return prev
	}
	return fresh
}

// viewerSet is a bounded insertion-ordered set of fingerprints.
type viewerSet struct {
	mu    sync.Mutex
	ring  []string
	head  int
	size  int
	index map[string]struct{}

	records uint64
}

func newViewerSet(capacity int) *viewerSet {
	return &viewerSet{
		ring:  make([]string, capacity),
		index: make(map[string]struct{}, capacity),
	}
}

func (s *viewerSet) contains(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[fp]
	return ok
}

func (s *viewerSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *viewerSet) recordCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

func (s *viewerSet) add(snippets []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records++

	for _, snippet := range snippets {
		fp := domain.Fingerprint(snippet)
		if fp == "" {
			continue
		}
		if _, ok := s.index[fp]; ok {
			continue
		}

		if s.size == len(s.ring) {
			// Full: overwrite the oldest entry.
			delete(s.index, s.ring[s.head])
			s.ring[s.head] = fp
			s.head = (s.head + 1) % len(s.ring)
		} else {
			s.ring[(s.head+s.size)%len(s.ring)] = fp
			s.size++
		}
		s.index[fp] = struct{}{}
	}
}
