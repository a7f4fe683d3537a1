// Package feed orchestrates one page of the snippet feed: it validates the
// request, serves the candidate batch through the generation cache, falls
// back to templated content when the provider fails, removes what the viewer
// has already seen and tops the page up until it holds the requested count.
//
// Generate only ever fails with domain.ErrBadRequest, or with the caller's
// context error when the caller stops waiting.
package feed
