package generation

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingRotator struct {
	rotations int
}

func (r *countingRotator) Rotate() { r.rotations++ }

func TestRetrySucceedsFirstTry(t *testing.T) {
	rot := &countingRotator{}
	calls := 0

	out, err := Retry(context.Background(), rot, 2, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if out != "ok" || calls != 1 {
		t.Fatalf("out=%q calls=%d, want ok/1", out, calls)
	}
	if rot.rotations != 0 {
		t.Fatalf("rotated %d times on success", rot.rotations)
	}
}

func TestRetryRotatesOnQuotaThenRetries(t *testing.T) {
	rot := &countingRotator{}
	calls := 0

	out, err := Retry(context.Background(), rot, 2, time.Millisecond, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &StatusError{Code: 429, Message: "quota exceeded"}
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if out != "recovered" || calls != 2 {
		t.Fatalf("out=%q calls=%d, want recovered/2", out, calls)
	}
	if rot.rotations != 1 {
		t.Fatalf("rotations = %d, want 1", rot.rotations)
	}
}

func TestRetryTransientDoesNotRotate(t *testing.T) {
	rot := &countingRotator{}
	calls := 0

	_, err := Retry(context.Background(), rot, 1, time.Millisecond, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &StatusError{Code: 503, Message: "overloaded"}
		}
		return "fine", nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if rot.rotations != 0 {
		t.Fatalf("transient failure rotated the pool %d times", rot.rotations)
	}
}

func TestRetryPermanentFailsImmediately(t *testing.T) {
	calls := 0
	permanent := errors.New("model does not exist")

	_, err := Retry(context.Background(), nil, 5, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Fatalf("permanent error retried: %d calls", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	calls := 0

	_, err := Retry(context.Background(), nil, 2, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "", &StatusError{Code: 500, Message: "internal"}
	})

	var status *StatusError
	if !errors.As(err, &status) || status.Code != 500 {
		t.Fatalf("err = %v, want the last StatusError", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestRetryCancelledNeverRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, nil, 5, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Fatalf("cancelled retry still invoked the operation %d times", calls)
	}
}

func TestWaitAbortsPromptlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Wait(ctx, 30*time.Second) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Wait returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not abort after cancellation")
	}
}

func TestRetryBackoffWaitIsCancellable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, nil, 1, time.Hour, func(context.Context) (string, error) {
			return "", &StatusError{Code: 503, Message: "overloaded"}
		})
		done <- err
	}()

	// Give the goroutine a moment to enter the backoff wait.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("backoff wait ignored cancellation")
	}
}
