package infra

// Circuit breaker guarding the SMTP relay used by the alert worker. A relay
// that starts refusing connections trips the breaker so queued alerts fail
// fast instead of each one waiting out a dial timeout.
//
// Closed → Open after FailureThreshold consecutive failures.
// Open → Half-Open once OpenTimeout has elapsed (next call probes).
// Half-Open → Closed after SuccessThreshold consecutive probe successes,
// back to Open on any probe failure.

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Execute while the breaker is fast-failing.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CBState is exposed for logs and the health endpoint.
type CBState string

const (
	CBClosed   CBState = "closed"
	CBOpen     CBState = "open"
	CBHalfOpen CBState = "half-open"
)

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig returns the thresholds used for the SMTP relay.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker is safe for concurrent use by all workers in the pool.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	failures  int
	successes int
	probeAt   time.Time // when an open breaker may probe again
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed}
}

// State reports the current state, promoting Open to Half-Open when the
// probe deadline has passed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && !time.Now().Before(cb.probeAt) {
		cb.state = CBHalfOpen
		cb.successes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and folds the outcome into
// the breaker state.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) recordFailure() {
	cb.failures++
	switch cb.state {
	case CBHalfOpen:
		// Probe failed: back to open for a full timeout.
		cb.state = CBOpen
		cb.failures = 0
		cb.probeAt = time.Now().Add(cb.cfg.OpenTimeout)
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.successes = 0
			cb.probeAt = time.Now().Add(cb.cfg.OpenTimeout)
		}
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.failures = 0
			cb.successes = 0
		}
	case CBClosed:
		cb.failures = 0
	}
}
