package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_ClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Second)

	for i := 0; i < 10; i++ {
		err := cb.Call(func() error { return nil })
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected closed state, got %v", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	fail := func() error { return errors.New("upstream down") }

	for i := 0; i < 3; i++ {
		_ = cb.Call(fail)
	}

	if cb.State() != StateOpen {
		t.Errorf("Expected open state after 3 failures, got %v", cb.State())
	}

	// Subsequent calls are rejected without executing the function
	executed := false
	err := cb.Call(func() error {
		executed = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if executed {
		t.Error("Expected function to not execute while circuit is open")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	fail := func() error { return errors.New("upstream down") }

	_ = cb.Call(fail)
	_ = cb.Call(fail)
	_ = cb.Call(func() error { return nil })
	_ = cb.Call(fail)
	_ = cb.Call(fail)

	if cb.State() != StateClosed {
		t.Errorf("Expected closed state after interleaved success, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	_ = cb.Call(func() error { return errors.New("fail") })
	if cb.State() != StateOpen {
		t.Fatalf("Expected open state, got %v", cb.State())
	}

	// Wait for the reset timeout, then recover with successful probes
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("Expected probe %d to be allowed, got %v", i, err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected closed state after successful probes, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	_ = cb.Call(func() error { return errors.New("fail") })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Call(func() error { return errors.New("still failing") })

	if cb.State() != StateOpen {
		t.Errorf("Expected open state after half-open failure, got %v", cb.State())
	}
}

func TestCircuitState_String(t *testing.T) {
	if StateClosed.String() != "closed" || StateOpen.String() != "open" || StateHalfOpen.String() != "half-open" {
		t.Error("Unexpected state names")
	}
}
