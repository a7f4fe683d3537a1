package feed

import "errors"

var (
	// ErrAllDuplicates marks a batch whose every candidate was already seen
	// by the viewer. It is logged, never returned.
	ErrAllDuplicates = errors.New("all candidates already seen by viewer")

	// ErrEmptyBatch is returned from a generation that parsed but held no cards.
	ErrEmptyBatch = errors.New("provider returned no usable cards")

	// ErrInvalidDependency is returned when the service is built with a nil dependency.
	ErrInvalidDependency = errors.New("invalid service dependency")
)
