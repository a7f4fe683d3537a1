package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Call outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeTimeout         = "timeout"
	OutcomeRateLimited     = "rate_limited"
	OutcomeUnavailable     = "unavailable"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeCanceled        = "canceled"
)

// CallEvent describes one upstream provider call.
type CallEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Provider is the backend name, e.g. "gemini" or "openai"
	Provider string `json:"provider"`

	// Topic is the display topic the call was made for, if known
	Topic string `json:"topic,omitempty"`

	// Outcome is one of the Outcome* constants
	Outcome string `json:"outcome"`

	// Duration is the wall time spent waiting on the provider
	Duration time.Duration `json:"duration"`

	// Error is the redacted error text for failed calls
	Error string `json:"error,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewCallEvent creates a CallEvent with a fresh ID and timestamp.
func NewCallEvent(provider, topic, outcome string, duration time.Duration) *CallEvent {
	return &CallEvent{
		ID:        uuid.New(),
		Provider:  provider,
		Topic:     topic,
		Outcome:   outcome,
		Duration:  duration,
		CreatedAt: time.Now(),
	}
}

// EventHandler defines an interface for components that consume call events.
type EventHandler interface {
	// HandleEvent processes the given event. Errors are logged by the emitter
	// and do not affect other handlers.
	HandleEvent(ctx context.Context, event *CallEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *CallEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *CallEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that publish call events.
type EventEmitter interface {
	// EmitEvent hands the event to registered handlers without waiting for them.
	EmitEvent(ctx context.Context, event *CallEvent) error
}
