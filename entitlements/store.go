// Package entitlements meters premium video production. Free accounts get a
// fixed number of movie-mode trials; unlimited accounts are rate-limited to a
// daily quota with a rolling 24h reset.
package entitlements

import "context"

// Store tracks video session allowances per user.
type Store interface {
	// ConsumeVideoSession spends one session if the user has any left and
	// reports whether the spend was granted.
	ConsumeVideoSession(ctx context.Context, userID string) (bool, error)

	// Remaining reports how many sessions the user can still start. For
	// unlimited accounts this is the rest of today's quota.
	Remaining(ctx context.Context, userID string) (int, error)

	// SetUnlimited switches a user between the trial and unlimited tiers.
	SetUnlimited(ctx context.Context, userID string, unlimited bool) error

	Close() error
}
