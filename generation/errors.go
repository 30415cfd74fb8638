// Package generation implements the execution strategy shared by every media
// capability: classify provider failures, retry transients with exponential
// backoff, rotate credentials on quota exhaustion, and walk an ordered
// provider chain until one backend delivers.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Class buckets a provider failure for retry/fallback decisions.
type Class int

const (
	// ClassPermanent covers anything not recognized below; never retried.
	ClassPermanent Class = iota
	// ClassCancelled means the caller aborted; never retried, never a failure.
	ClassCancelled
	// ClassQuota means the current key hit a rate limit; rotate and retry.
	ClassQuota
	// ClassTransient means a server-side hiccup; retry without rotating.
	ClassTransient
	// ClassSafety means the provider's content filter fired. Not retried on
	// the same provider, but worth trying elsewhere in the chain.
	ClassSafety
	// ClassMalformed means the provider answered with an unusable payload.
	// Permanent for that provider, but the chain advances.
	ClassMalformed
	// ClassInvalidRequest means a bad request or bad credential. It will
	// recur identically on every provider, so the whole chain aborts.
	ClassInvalidRequest
)

// ErrSafetyBlocked marks a content-safety rejection from a provider.
var ErrSafetyBlocked = errors.New("blocked by content safety filter")

// StatusError carries an HTTP status from a provider response. Adapters wrap
// SDK and REST errors into this so classification stays provider-agnostic.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// MalformedResponseError reports a response that parsed but carried no
// usable payload (e.g. a script with no scenes).
type MalformedResponseError struct {
	Provider string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Provider, e.Reason)
}

// AllProvidersFailedError is terminal: every provider in a capability's
// chain was exhausted.
type AllProvidersFailedError struct {
	Category string
	Err      error
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("%s generation failed on all providers: %v", e.Category, e.Err)
}

func (e *AllProvidersFailedError) Unwrap() error { return e.Err }

// Classify maps an error to its retry class. Unrecognized errors are
// permanent: retrying a failure we cannot explain just burns quota.
func Classify(err error) Class {
	if err == nil {
		return ClassPermanent
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassCancelled
	}
	if errors.Is(err, ErrSafetyBlocked) {
		return ClassSafety
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return ClassMalformed
	}

	var status *StatusError
	if errors.As(err, &status) {
		switch status.Code {
		case 429:
			return ClassQuota
		case 500, 502, 503, 504:
			return ClassTransient
		case 400, 401, 403:
			return ClassInvalidRequest
		}
	}

	// Fall back to message sniffing: some SDK errors surface only as text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "quota"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return ClassQuota
	case strings.Contains(msg, "503"), strings.Contains(msg, "500"),
		strings.Contains(msg, "UNAVAILABLE"), strings.Contains(msg, "overloaded"):
		return ClassTransient
	case strings.Contains(msg, "API key"), strings.Contains(msg, "400"),
		strings.Contains(msg, "INVALID_ARGUMENT"):
		return ClassInvalidRequest
	}
	return ClassPermanent
}

// IsCancelled reports whether err stems from caller cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
