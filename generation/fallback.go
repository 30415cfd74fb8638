package generation

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	// Each provider gets one short local retry before the executor moves on;
	// chain-wide fallback, not a long retry loop, carries the real
	// resilience budget.
	chainRetries      = 1
	chainInitialDelay = 1 * time.Second
)

// WithFallbacks tries providers in order until one succeeds.
//
// Per provider, op runs under Retry with a single local retry. Cancellation
// propagates immediately. An invalid-request or invalid-credential failure
// aborts the whole chain, since it would recur identically on every
// provider. Any other failure (quota, server, safety, malformed payload) is
// logged and the next provider is tried. When the chain is exhausted the
// last error is wrapped in AllProvidersFailedError.
func WithFallbacks[T any](ctx context.Context, rot Rotator, providers []string, category string, op func(ctx context.Context, provider string) (T, error)) (T, error) {
	var zero T
	var last error

	for _, provider := range providers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := Retry(ctx, rot, chainRetries, chainInitialDelay, func(c context.Context) (T, error) {
			return op(c, provider)
		})
		if err == nil {
			return out, nil
		}

		switch Classify(err) {
		case ClassCancelled:
			return zero, err
		case ClassInvalidRequest:
			return zero, err
		}

		log.Printf("⚠️ [%s] provider %q failed: %v", category, provider, err)
		last = err
	}

	if last == nil {
		last = fmt.Errorf("no providers configured for %s", category)
	}
	return zero, &AllProvidersFailedError{Category: category, Err: last}
}
