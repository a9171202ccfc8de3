package exchange

import (
	"sync"
)

// CircuitBreaker trips after consecutive failed completions so the user can
// be pointed at their API key or connection once instead of on every turn.
type CircuitBreaker struct {
	mu                  sync.Mutex
	consecutiveFailures int
	threshold           int
	tripped             bool
}

// NewCircuitBreaker creates a circuit breaker with the given threshold.
func NewCircuitBreaker(threshold int) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3 // default
	}
	return &CircuitBreaker{threshold: threshold}
}

// RecordFailure increments the failure counter. It reports true only on the
// failure that trips the breaker.
func (cb *CircuitBreaker) RecordFailure() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutiveFailures++
	if cb.consecutiveFailures >= cb.threshold && !cb.tripped {
		cb.tripped = true
		return true
	}
	return false
}

// RecordSuccess resets the failure counter.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.Reset()
}

// Tripped returns true if the threshold was reached.
func (cb *CircuitBreaker) Tripped() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.tripped
}

// Reset clears the circuit breaker state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutiveFailures = 0
	cb.tripped = false
}

// ConsecutiveFailures returns the current failure count.
func (cb *CircuitBreaker) ConsecutiveFailures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.consecutiveFailures
}
