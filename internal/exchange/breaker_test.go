package exchange

import (
	"sync"
	"testing"
)

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewCircuitBreaker(3)
	if cb.RecordFailure() || cb.RecordFailure() {
		t.Error("breaker should not trip before the threshold")
	}
	if cb.Tripped() {
		t.Error("Tripped should be false after 2 failures (threshold is 3)")
	}
	if !cb.RecordFailure() {
		t.Error("third failure should report the trip")
	}
	if cb.RecordFailure() {
		t.Error("trip is reported only once")
	}
	if !cb.Tripped() {
		t.Error("Tripped should be true after 3 failures")
	}
}

func TestCircuitBreakerSuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(3)
	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	if cb.Tripped() {
		t.Error("Tripped should be false after success reset")
	}
	if cb.ConsecutiveFailures() != 1 {
		t.Errorf("ConsecutiveFailures = %d, want 1", cb.ConsecutiveFailures())
	}
}

func TestCircuitBreakerDefaultThreshold(t *testing.T) {
	for _, threshold := range []int{0, -1} {
		cb := NewCircuitBreaker(threshold)
		cb.RecordFailure()
		cb.RecordFailure()
		if !cb.RecordFailure() {
			t.Errorf("threshold %d should default to 3", threshold)
		}
	}
}

func TestCircuitBreakerConcurrent(t *testing.T) {
	cb := NewCircuitBreaker(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb.RecordFailure()
		}()
	}
	wg.Wait()
	if cb.ConsecutiveFailures() != 50 {
		t.Errorf("ConsecutiveFailures = %d, want 50", cb.ConsecutiveFailures())
	}
}
