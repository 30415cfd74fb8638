package generation

import (
	"context"
	"time"
)

// Rotator advances to the next credential. *keypool.Pool satisfies this; a
// nil Rotator disables rotation.
type Rotator interface {
	Rotate()
}

// Wait sleeps for d or until ctx is cancelled, whichever comes first. The
// pending wait aborts the instant cancellation fires.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry runs op with bounded exponential backoff.
//
// Quota failures rotate the credential pool before retrying; transient
// server failures retry without rotation; everything else fails
// immediately. The backoff delay doubles per attempt and the wait itself is
// cancellable. Exhausting the budget returns the last classified error.
func Retry[T any](ctx context.Context, rot Rotator, retries int, delay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := op(ctx)
		if err == nil {
			return out, nil
		}

		switch Classify(err) {
		case ClassCancelled:
			return zero, err
		case ClassQuota:
			if rot != nil {
				rot.Rotate()
			}
		case ClassTransient:
			// Retry below without rotating.
		default:
			return zero, err
		}

		if retries <= 0 {
			return zero, err
		}
		retries--

		if werr := Wait(ctx, delay); werr != nil {
			return zero, werr
		}
		delay *= 2
	}
}
