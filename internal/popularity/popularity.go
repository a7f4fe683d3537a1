// Package popularity keeps simple per-topic request counters used to list
// trending topics. Counts are best effort and carry no ranking logic beyond
// ordering by count.
package popularity

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/phrazzld/scry-feed/internal/domain"
)

// DefaultMaxTopics bounds the number of distinct topics a MemoryCounter tracks.
const DefaultMaxTopics = 10000

// ErrInvalidLimit is returned by Top for a non-positive limit.
var ErrInvalidLimit = errors.New("limit must be positive")

// TopicCount is one entry of a popularity listing.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

// Counter counts topic requests.
type Counter interface {
	// Increment adds one request for topic. Topics are normalized first.
	Increment(ctx context.Context, topic string) error

	// Top returns up to limit topics ordered by descending count.
	Top(ctx context.Context, limit int) ([]TopicCount, error)
}

// MemoryCounter is an in-process Counter. Once maxTopics distinct topics are
// tracked, new topics are ignored while existing ones keep counting.
type MemoryCounter struct {
	mu        sync.RWMutex
	counts    map[string]int64
	maxTopics int
}

// NewMemoryCounter creates a MemoryCounter.
func NewMemoryCounter(maxTopics int) *MemoryCounter {
	if maxTopics <= 0 {
		maxTopics = DefaultMaxTopics
	}
	return &MemoryCounter{
		counts:    make(map[string]int64),
		maxTopics: maxTopics,
	}
}

// Increment implements Counter.
func (c *MemoryCounter) Increment(_ context.Context, topic string) error {
	key := domain.NormalizeTopic(topic)
	if key == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counts[key]; !ok && len(c.counts) >= c.maxTopics {
		return nil
	}
	c.counts[key]++
	return nil
}

// Top implements Counter. Ties are ordered alphabetically.
func (c *MemoryCounter) Top(_ context.Context, limit int) ([]TopicCount, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	c.mu.RLock()
	all := make([]TopicCount, 0, len(c.counts))
	for topic, count := range c.counts {
		all = append(all, TopicCount{Topic: topic, Count: count})
	}
	c.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Topic < all[j].Topic
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
