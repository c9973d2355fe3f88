// Package entitlement defines the session and usage-tracking model backing
// pro access. A session is an opaque credential proving an entitlement
// tier; it is unlinked to any durable identity, so holding the token is
// holding the grant.
package entitlement

import (
	"context"
	"time"
)

// Plan is an entitlement tier gating AI access.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Session is a minted entitlement. Invariant: ExpiresAt > CreatedAt.
type Session struct {
	Token     string    `json:"sessionToken"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// Store owns all session and usage-counter state for the process lifetime.
// Implementations must be safe for concurrent use; increments on the same
// token must never lose updates, and a sweep must never interleave with a
// write so that callers observe half-cleared state.
type Store interface {
	// Issue mints a session with a fresh random token and the given validity.
	Issue(ctx context.Context, plan Plan, validity time.Duration) (Session, error)

	// Lookup returns the session for a token. Unknown tokens are
	// (zero, false, nil), never an error.
	Lookup(ctx context.Context, token string) (Session, bool, error)

	// Usage returns the token's usage count in the current window
	// (0 if nothing recorded).
	Usage(ctx context.Context, token string) (int, error)

	// RecordUsage atomically increments the token's counter and returns
	// the post-increment value.
	RecordUsage(ctx context.Context, token string) (int, error)

	// SweepExpired removes every session whose expiry is before now,
	// along with its usage counter, and returns how many were removed.
	SweepExpired(ctx context.Context, now time.Time) (int, error)

	// ResetUsage clears every usage counter, leaving sessions intact.
	ResetUsage(ctx context.Context) error

	Close() error
}
