package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	// ErrBufferFull is returned when an event is dropped because the buffer is full.
	ErrBufferFull = errors.New("event buffer full")

	// ErrEmitterClosed is returned when emitting after Close.
	ErrEmitterClosed = errors.New("event emitter closed")
)

// DefaultBufferSize is used when NewAsyncEmitter is given a non-positive size.
const DefaultBufferSize = 1024

// AsyncEmitter dispatches events to registered handlers on a single
// background goroutine fed by a bounded channel.
type AsyncEmitter struct {
	handlers []EventHandler
	mu       sync.RWMutex

	queue   chan *CallEvent
	closed  bool
	done    chan struct{}
	dropped atomic.Int64

	logger *slog.Logger
}

// NewAsyncEmitter creates an emitter and starts its dispatch goroutine.
func NewAsyncEmitter(logger *slog.Logger, bufferSize int) *AsyncEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	e := &AsyncEmitter{
		queue:  make(chan *CallEvent, bufferSize),
		done:   make(chan struct{}),
		logger: logger.With("component", "async_event_emitter"),
	}
	go e.run()
	return e
}

// RegisterHandler adds a new event handler to receive events.
func (e *AsyncEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// EmitEvent enqueues the event. It never blocks; a full buffer drops the
// event and returns ErrBufferFull.
func (e *AsyncEmitter) EmitEvent(_ context.Context, event *CallEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrEmitterClosed
	}

	select {
	case e.queue <- event:
		return nil
	default:
		e.dropped.Add(1)
		return ErrBufferFull
	}
}

// Dropped returns the number of events dropped because the buffer was full.
func (e *AsyncEmitter) Dropped() int64 {
	return e.dropped.Load()
}

// Close stops accepting events and waits until queued events are dispatched.
func (e *AsyncEmitter) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		<-e.done
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	<-e.done
}

func (e *AsyncEmitter) run() {
	defer close(e.done)

	for event := range e.queue {
		e.mu.RLock()
		handlers := make([]EventHandler, len(e.handlers))
		copy(handlers, e.handlers)
		e.mu.RUnlock()

		for i, handler := range handlers {
			if err := handler.HandleEvent(context.Background(), event); err != nil {
				e.logger.Error("handler failed to process event",
					"error", err,
					"handler_index", i,
					"event_id", event.ID,
					"outcome", event.Outcome)
			}
		}
	}
}
