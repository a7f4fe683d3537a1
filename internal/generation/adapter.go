package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/scry-feed/internal/events"
	"github.com/phrazzld/scry-feed/internal/redact"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a provider call when no timeout is given.
const DefaultTimeout = 15 * time.Second

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// Timeout is the default hard timeout per call.
	Timeout time.Duration

	// RateLimit is the sustained number of calls per second admitted by the
	// local limiter. Zero disables local rate limiting.
	RateLimit float64

	// RateBurst is the limiter bucket size. Values below 1 are treated as 1.
	RateBurst int

	// Breaker configures the circuit breaker. MaxFailures of zero disables it.
	Breaker BreakerConfig
}

// Adapter turns any Completer into a Provider: it enforces the timeout,
// classifies failures into this package's sentinel errors and publishes one
// call event per call. It never retries.
type Adapter struct {
	completer Completer
	config    AdapterConfig
	limiter   *rate.Limiter
	breaker   *Breaker
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewAdapter creates an Adapter. The emitter may be nil.
func NewAdapter(
	completer Completer,
	config AdapterConfig,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*Adapter, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	a := &Adapter{
		completer: completer,
		config:    config,
		emitter:   emitter,
		logger:    logger.With("component", "provider_adapter", "provider", completer.Name()),
	}

	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	if config.Breaker.MaxFailures > 0 {
		a.breaker = NewBreaker(config.Breaker, logger)
	}

	return a, nil
}

// Complete calls the backend with a hard timeout. A timeout of zero or less
// uses the configured default.
func (a *Adapter) Complete(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = a.config.Timeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	text, err := a.call(callCtx, prompt)
	a.publish(ctx, time.Since(start), err)

	return text, err
}

func (a *Adapter) call(ctx context.Context, prompt string) (string, error) {
	if a.limiter != nil {
		// Wait fails immediately when the reservation cannot be satisfied
		// before the deadline. A context that is already done is not a rate
		// limit.
		if err := a.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return "", classify(ctx, err)
			}
			return "", fmt.Errorf("%w: local limiter: %v", ErrRateLimited, err)
		}
	}

	if !a.breaker.Allow() {
		return "", fmt.Errorf("%w: circuit open", ErrProviderUnavailable)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := a.completer.Complete(ctx, prompt)
		done <- result{text: text, err: err}
	}()

	var (
		text string
		err  error
	)
	select {
	case r := <-done:
		text, err = r.text, classify(ctx, r.err)
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("%w: empty completion", ErrInvalidResponse)
		}
	case <-ctx.Done():
		err = classify(ctx, ctx.Err())
	}

	// An empty-but-successful answer still means the provider is up.
	a.breaker.Record(err == nil || errors.Is(err, ErrInvalidResponse))

	if err != nil {
		return "", err
	}
	return text, nil
}

// classify maps a backend error onto the sentinel taxonomy, keeping the
// original error in the chain.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrProviderTimeout) || errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrInvalidResponse) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
}

func (a *Adapter) publish(ctx context.Context, duration time.Duration, err error) {
	if a.emitter == nil {
		return
	}

	event := events.NewCallEvent(a.completer.Name(), TopicFromContext(ctx), outcome(err), duration)
	if err != nil {
		event.Error = redact.Error(err)
	}

	if emitErr := a.emitter.EmitEvent(ctx, event); emitErr != nil {
		a.logger.Debug("call event dropped", "error", emitErr)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return events.OutcomeOK
	case errors.Is(err, ErrProviderTimeout):
		return events.OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return events.OutcomeCanceled
	case errors.Is(err, ErrRateLimited):
		return events.OutcomeRateLimited
	case errors.Is(err, ErrInvalidResponse):
		return events.OutcomeInvalidResponse
	default:
		return events.OutcomeUnavailable
	}
}
