package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-feed/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when GetOrGenerate is called with a non-positive ttl.
const DefaultTTL = time.Hour

// Lookup describes how a GetOrGenerate result was obtained.
type Lookup int

const (
	// LookupHit means a stored entry was returned.
	LookupHit Lookup = iota
	// LookupMiss means this caller's generation produced the batch.
	LookupMiss
	// LookupCoalesced means the batch came from a generation shared with
	// other concurrent callers.
	LookupCoalesced
)

// String returns the label used in logs and metrics.
func (l Lookup) String() string {
	switch l {
	case LookupHit:
		return "hit"
	case LookupMiss:
		return "miss"
	case LookupCoalesced:
		return "coalesced"
	default:
		return "unknown"
	}
}

// GenerateFunc produces the batch for a missing key.
type GenerateFunc func(ctx context.Context) (domain.Batch, error)

// Cache fronts a Store with single-flight generation.
type Cache struct {
	store  Store
	group  singleflight.Group
	now    func() time.Time
	logger *slog.Logger
}

// New creates a Cache over store.
func New(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:  store,
		now:    time.Now,
		logger: logger.With("component", "generation_cache"),
	}
}

type flightResult struct {
	batch  domain.Batch
	stored bool
}

// GetOrGenerate returns the batch stored under key or generates it.
//
// Concurrent callers for the same key share one generate invocation. The
// generation runs detached from ctx: a caller whose ctx ends stops waiting
// and gets ctx.Err(), while the generation continues and is stored for
// everyone else. Errors from generate are returned to every waiter and are
// not stored.
func (c *Cache) GetOrGenerate(
	ctx context.Context,
	key string,
	ttl time.Duration,
	generate GenerateFunc,
) (domain.Batch, Lookup, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if entry, ok := c.lookup(ctx, key); ok {
		return entry.Batch, LookupHit, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// A flight that finished just before this one started may have
		// stored the entry already.
		if entry, ok := c.lookup(flightCtx, key); ok {
			return flightResult{batch: entry.Batch, stored: true}, nil
		}

		batch, err := generate(flightCtx)
		if err != nil {
			return nil, err
		}

		now := c.now()
		entry := Entry{
			Key:       key,
			Batch:     batch,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
		if err := c.store.Set(flightCtx, entry); err != nil {
			c.logger.WarnContext(flightCtx, "failed to store generated batch",
				"key", key,
				"error", err)
		}
		return flightResult{batch: batch}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.Batch{}, LookupMiss, res.Err
		}
		result, ok := res.Val.(flightResult)
		if !ok {
			return domain.Batch{}, LookupMiss, errors.New("unexpected single-flight result")
		}
		switch {
		case result.stored:
			return result.batch, LookupHit, nil
		case res.Shared:
			return result.batch, LookupCoalesced, nil
		default:
			return result.batch, LookupMiss, nil
		}
	case <-ctx.Done():
		return domain.Batch{}, LookupMiss, ctx.Err()
	}
}

func (c *Cache) lookup(ctx context.Context, key string) (Entry, bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed, treating as miss",
			"key", key,
			"error", err)
		return Entry{}, false
	}
	if !ok || entry.Expired(c.now()) {
		return Entry{}, false
	}
	return entry, true
}
