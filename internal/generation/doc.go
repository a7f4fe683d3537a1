// Package generation is the boundary between the feed and upstream
// text-generation providers. It defines the Completer contract that concrete
// backends (Gemini, OpenAI-compatible APIs) implement, the Adapter that puts a
// hard timeout, rate limiting, a circuit breaker and failure classification
// around any Completer, and Parse, which extracts cards and sub-topic options
// from noisy model output.
package generation
