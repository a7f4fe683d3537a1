package generation

import (
	"context"
	"time"
)

// Completer is a single upstream text-generation backend. Implementations
// send the prompt and return the raw response text. They report HTTP-style
// failures as *StatusError and empty payloads as ErrInvalidResponse; timeout
// enforcement and retry policy belong to callers.
type Completer interface {
	// Complete sends prompt to the backend and returns the generated text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend in logs and metrics.
	Name() string
}

// Provider is the contract the feed consumes: one text completion bounded by
// a timeout, with failures classified into this package's sentinel errors.
type Provider interface {
	Complete(ctx context.Context, prompt string, timeout time.Duration) (string, error)
}

type topicKey struct{}

// WithTopic attaches the display topic to ctx so call events can report it.
func WithTopic(ctx context.Context, topic string) context.Context {
	return context.WithValue(ctx, topicKey{}, topic)
}

// TopicFromContext returns the topic set by WithTopic, or "".
func TopicFromContext(ctx context.Context) string {
	topic, _ := ctx.Value(topicKey{}).(string)
	return topic
}
