package domain

import "strings"

// SubTopicOption is a suggested follow-on exploration shown alongside snippets.
type SubTopicOption struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Batch is the candidate content produced for one cache key. Batches are
// shared between viewers once cached and must be treated as immutable.
type Batch struct {
	Snippets []string         `json:"snippets"`
	Options  []SubTopicOption `json:"options,omitempty"`
}

// GenerationRequest asks the pipeline for Count snippets about Topic.
type GenerationRequest struct {
	// Topic is the free-text subject as entered by the user.
	Topic string

	// Count is the number of snippets wanted, between MinCount and MaxCount.
	Count int

	// Cursor is the opaque continuation token from a previous result; empty
	// for the first page.
	Cursor string

	// GenerateOptions requests sub-topic suggestions with the batch.
	GenerateOptions bool

	// ViewerKey scopes deduplication. It is derived by the caller from the
	// authenticated user, session id or client address and never persisted.
	ViewerKey string
}

// Validate checks the request fields that do not depend on cursor decoding.
func (r GenerationRequest) Validate() error {
	if err := ValidateTopic(r.Topic); err != nil {
		return err
	}
	if r.Count < MinCount || r.Count > MaxCount {
		return NewValidationError("count", "must be between 1 and 10", ErrInvalidCount)
	}
	if strings.TrimSpace(r.ViewerKey) == "" {
		return NewValidationError("viewer_key", "is required", ErrMissingViewer)
	}
	return nil
}

// Result sources.
const (
	SourceProvider = "provider"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// GenerationResult is what the pipeline returns for one request.
type GenerationResult struct {
	Snippets   []string         `json:"snippets"`
	Options    []SubTopicOption `json:"options,omitempty"`
	NextCursor string           `json:"next_cursor"`

	// Source reports where the candidate batch came from.
	Source string `json:"source"`

	// FallbackCount is the number of returned snippets drawn from the
	// fallback library, either as the whole batch or as top-up.
	FallbackCount int `json:"-"`
}
