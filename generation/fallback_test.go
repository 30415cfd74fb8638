package generation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithFallbacksTriesProvidersInOrder(t *testing.T) {
	var invoked []string

	out, err := WithFallbacks(context.Background(), nil, []string{"a", "b", "c"}, "Test",
		func(_ context.Context, provider string) (string, error) {
			invoked = append(invoked, provider)
			if provider == "c" {
				return "from-c", nil
			}
			return "", errors.New("model does not exist")
		})
	if err != nil {
		t.Fatalf("WithFallbacks returned error: %v", err)
	}
	if out != "from-c" {
		t.Fatalf("out = %q, want from-c", out)
	}
	if len(invoked) != 3 || invoked[0] != "a" || invoked[1] != "b" || invoked[2] != "c" {
		t.Fatalf("invocation order = %v, want [a b c]", invoked)
	}
}

func TestWithFallbacksFatalShortCircuits(t *testing.T) {
	var invoked []string

	_, err := WithFallbacks(context.Background(), nil, []string{"a", "b"}, "Test",
		func(_ context.Context, provider string) (string, error) {
			invoked = append(invoked, provider)
			return "", &StatusError{Code: 400, Message: "API key not valid"}
		})

	var status *StatusError
	if !errors.As(err, &status) || status.Code != 400 {
		t.Fatalf("err = %v, want the fatal StatusError", err)
	}
	if len(invoked) != 1 || invoked[0] != "a" {
		t.Fatalf("fatal error did not short-circuit: invoked %v", invoked)
	}
}

func TestWithFallbacksSafetyAdvancesChain(t *testing.T) {
	var invoked []string

	out, err := WithFallbacks(context.Background(), nil, []string{"a", "b"}, "Test",
		func(_ context.Context, provider string) (string, error) {
			invoked = append(invoked, provider)
			if provider == "a" {
				return "", ErrSafetyBlocked
			}
			return "safe", nil
		})
	if err != nil {
		t.Fatalf("WithFallbacks returned error: %v", err)
	}
	if out != "safe" || len(invoked) != 2 {
		t.Fatalf("out=%q invoked=%v, want safety rejection to advance the chain", out, invoked)
	}
}

func TestWithFallbacksExhaustionWrapsLastError(t *testing.T) {
	lastErr := errors.New("no scenes")

	_, err := WithFallbacks(context.Background(), nil, []string{"a", "b"}, "Script",
		func(_ context.Context, provider string) (string, error) {
			if provider == "a" {
				return "", errors.New("first failure")
			}
			return "", lastErr
		})

	var all *AllProvidersFailedError
	if !errors.As(err, &all) {
		t.Fatalf("err = %T, want AllProvidersFailedError", err)
	}
	if all.Category != "Script" {
		t.Fatalf("Category = %q, want Script", all.Category)
	}
	if !errors.Is(err, lastErr) {
		t.Fatalf("wrapped error = %v, want the last observed error", all.Err)
	}
}

func TestWithFallbacksCancellationStopsIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var invoked []string
	done := make(chan error, 1)
	go func() {
		_, err := WithFallbacks(ctx, nil, []string{"a", "b", "c"}, "Test",
			func(c context.Context, provider string) (string, error) {
				invoked = append(invoked, provider)
				if provider == "a" {
					cancel()
				}
				return "", &StatusError{Code: 503, Message: "overloaded"}
			})
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation did not stop the chain")
	}
	if len(invoked) != 1 {
		t.Fatalf("providers invoked after cancellation: %v", invoked)
	}
}

func TestWithFallbacksInnerRetryReinvokesProvider(t *testing.T) {
	calls := 0

	out, err := WithFallbacks(context.Background(), nil, []string{"a"}, "Test",
		func(context.Context, string) (string, error) {
			calls++
			if calls == 1 {
				return "", &StatusError{Code: 503, Message: "overloaded"}
			}
			return "second-try", nil
		})
	if err != nil {
		t.Fatalf("WithFallbacks returned error: %v", err)
	}
	if out != "second-try" || calls != 2 {
		t.Fatalf("out=%q calls=%d, want the local retry to re-invoke the provider once", out, calls)
	}
}
