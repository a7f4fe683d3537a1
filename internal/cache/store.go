package cache

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/scry-feed/internal/domain"
)

// ErrInvalidEntry is returned when an entry cannot be stored.
var ErrInvalidEntry = errors.New("invalid cache entry")

// Entry is one cached batch. Entries are immutable once written.
type Entry struct {
	Key       string       `json:"key"`
	Batch     domain.Batch `json:"batch"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Expired reports whether the entry is no longer valid at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is the persistence behind a Cache.
type Store interface {
	// Get returns the entry for key. Expired entries are reported as absent.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set writes the entry, replacing any previous entry for its key. The
	// entry expires at entry.ExpiresAt.
	Set(ctx context.Context, entry Entry) error
}

func cloneBatch(b domain.Batch) domain.Batch {
	out := domain.Batch{}
	if b.Snippets != nil {
		out.Snippets = append(make([]string, 0, len(b.Snippets)), b.Snippets...)
	}
	if b.Options != nil {
		out.Options = append(make([]domain.SubTopicOption, 0, len(b.Options)), b.Options...)
	}
	return out
}
