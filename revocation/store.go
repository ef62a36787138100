package revocation

import (
	"context"
	"time"
)

// Store records revoked token ids until the underlying tokens would have
// expired anyway. Implementations must be safe for concurrent use and must
// make RevokeIfAbsent atomic.
type Store interface {
	// Revoke inserts tokenID unconditionally. Idempotent: revoking an
	// already-revoked id succeeds and keeps the later expiry.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// RevokeIfAbsent inserts tokenID only if it is not already present,
	// reporting whether this call performed the insert. This is the
	// single conditional write refresh rotation relies on: exactly one of
	// any number of concurrent callers observes true.
	RevokeIfAbsent(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error)

	// IsRevoked reports whether tokenID is currently revoked. Entries past
	// their expiry read as not revoked even before they are purged.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// PurgeExpired drops entries whose expiry has passed and returns how
	// many were removed. Backends with native expiry may return 0.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
