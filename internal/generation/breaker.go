package generation

import (
	"log/slog"
	"sync"
	"time"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed allows calls to pass through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the reset timeout elapses
	CircuitOpen
	// CircuitHalfOpen lets a trial call through to probe recovery
	CircuitHalfOpen
)

// String returns the string representation of the circuit state
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening the circuit.
	// Zero disables the breaker.
	MaxFailures int
	// ResetTimeout is how long the circuit stays open before a trial call
	ResetTimeout time.Duration
}

// DefaultBreakerConfig returns the defaults used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:  5,
		ResetTimeout: 30 * time.Second,
	}
}

// Breaker fails fast while the upstream provider is known to be down, so
// requests go straight to fallback content instead of waiting out timeouts.
type Breaker struct {
	config BreakerConfig
	now    func() time.Time
	logger *slog.Logger

	mu              sync.Mutex
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	trialInFlight   bool
}

// NewBreaker creates a circuit breaker in the closed state.
func NewBreaker(config BreakerConfig, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Breaker{
		config: config,
		now:    time.Now,
		logger: logger.With("component", "circuit_breaker"),
		state:  CircuitClosed,
	}
}

// Allow reports whether a call may proceed. In the half-open state only one
// trial call is admitted at a time.
func (b *Breaker) Allow() bool {
	if b == nil || b.config.MaxFailures <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitOpen:
		if b.now().Sub(b.lastFailureTime) < b.config.ResetTimeout {
			return false
		}
		b.state = CircuitHalfOpen
		b.trialInFlight = true
		b.logger.Info("circuit transitioning to half-open",
			"reset_timeout", b.config.ResetTimeout)
		return true
	case CircuitHalfOpen:
		if b.trialInFlight {
			return false
		}
		b.trialInFlight = true
		return true
	default:
		return true
	}
}

// Record updates the breaker with the outcome of an admitted call.
func (b *Breaker) Record(success bool) {
	if b == nil || b.config.MaxFailures <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.trialInFlight = false
	if success {
		if b.state != CircuitClosed {
			b.logger.Info("circuit closed, provider recovered")
		}
		b.state = CircuitClosed
		b.failureCount = 0
		return
	}

	b.failureCount++
	b.lastFailureTime = b.now()

	switch b.state {
	case CircuitHalfOpen:
		b.state = CircuitOpen
		b.logger.Warn("trial call failed, circuit re-opened")
	case CircuitClosed:
		if b.failureCount >= b.config.MaxFailures {
			b.state = CircuitOpen
			b.logger.Warn("circuit opened after consecutive failures",
				"failures", b.failureCount)
		}
	}
}

// State returns the current state.
func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
