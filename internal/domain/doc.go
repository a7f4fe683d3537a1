// Package domain contains the core value types of the feed: topics, snippets,
// sub-topic options and the request/result shapes of the generation pipeline.
// It is independent of any provider, cache or delivery mechanism.
package domain
