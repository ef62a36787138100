package tokencore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veilauth/tokencore/token"
)

// Refresh consumes a refresh token and mints a new pair. Rotation is
// mandatory and single-use: the presented token's id is inserted into the
// revocation store with a conditional write, and only the caller whose
// insert landed receives a new pair. Every other concurrent or subsequent
// caller gets ErrTokenRevoked. Callers should treat that as a possible
// token-theft signal and force re-authentication.
func (e *Engine) Refresh(ctx context.Context, refreshWire string) (token.Pair, error) {
	now := e.clock()

	claims, err := e.ValidateAt(ctx, refreshWire, now, token.TypeRefresh)
	if err != nil {
		e.inc(MetricRefreshFailure)
		return token.Pair{}, err
	}

	// Linearization point: insert-if-absent retires the old token and
	// decides the winner in one step. The advisory revocation read inside
	// ValidateAt cannot race past this.
	inserted, err := e.store.RevokeIfAbsent(ctx, claims.TokenID, e.revocationDeadline(claims.ExpiresAtTime()))
	if err != nil {
		e.inc(MetricRefreshFailure)
		return token.Pair{}, errors.Join(ErrStoreUnavailable, err)
	}
	if !inserted {
		e.inc(MetricRefreshFailure)
		e.inc(MetricRefreshReuseDetected)
		return token.Pair{}, fmt.Errorf("%w: refresh token already rotated", ErrTokenRevoked)
	}

	pair, err := e.IssueAt(ctx, claims.Subject, claims.Custom, now)
	if err != nil {
		e.inc(MetricRefreshFailure)
		return token.Pair{}, err
	}

	e.inc(MetricRefreshSuccess)
	return pair, nil
}

// Revoke blacklists a token id until expiresAt plus the configured leeway.
// Idempotent. The expiry should be the token's own, so the entry can be
// purged once the token would have died naturally.
func (e *Engine) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("%w: empty token id", ErrMalformedToken)
	}
	if err := e.store.Revoke(ctx, tokenID, e.revocationDeadline(expiresAt)); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	e.inc(MetricRevoke)
	return nil
}

// revocationDeadline is how long a revocation entry must live. Validation
// accepts a token until its expiry plus Leeway, so every entry must outlive
// that window or a revoked token would validate again inside it.
func (e *Engine) revocationDeadline(expiresAt time.Time) time.Time {
	return expiresAt.Add(e.config.Token.Leeway)
}

// RevokeToken blacklists a token given its wire form. The signature is
// verified first so an attacker cannot poison the store with ids lifted
// from forged tokens; expiry and revocation state are not checked, making
// the call idempotent and safe on already-dead tokens.
func (e *Engine) RevokeToken(ctx context.Context, wire string) error {
	claims, err := e.checkSigned(wire, e.clock())
	if err != nil {
		return err
	}
	return e.Revoke(ctx, claims.TokenID, claims.ExpiresAtTime())
}

// IsRevoked reports whether a token id is currently blacklisted.
func (e *Engine) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := e.store.IsRevoked(ctx, tokenID)
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return revoked, nil
}
