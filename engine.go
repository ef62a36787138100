package tokencore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veilauth/tokencore/internal/sign"
	"github.com/veilauth/tokencore/keyring"
	"github.com/veilauth/tokencore/revocation"
	"github.com/veilauth/tokencore/token"
)

// Engine is the token-authentication core. All methods are safe for
// concurrent use after Build.
//
// Issuance and validation are read-mostly: they touch the keyring under a
// read lock and the revocation store with a single read. Refresh performs
// the engine's only contended write, a conditional insert that guarantees
// exactly one winner per refresh token.
type Engine struct {
	config  Config
	keys    *keyring.Keyring
	store   revocation.Store
	clock   func() time.Time
	metrics *Metrics

	closeOnce sync.Once
	closed    chan struct{}
}

// Issue constructs a fresh access/refresh pair for an authenticated subject.
// Custom claims are copied into both tokens, opaque to the engine, and
// survive refresh. Nothing is persisted: a refresh token is valid precisely
// until it appears in the revocation store.
func (e *Engine) Issue(ctx context.Context, subject string, custom map[string]any) (token.Pair, error) {
	return e.IssueAt(ctx, subject, custom, e.clock())
}

// IssueAt is Issue with an explicit issuance instant.
func (e *Engine) IssueAt(_ context.Context, subject string, custom map[string]any, now time.Time) (token.Pair, error) {
	if subject == "" {
		return token.Pair{}, fmt.Errorf("%w: empty subject", ErrMalformedToken)
	}

	custom = cloneClaims(custom)
	active := e.keys.Active()

	access, err := e.mint(subject, custom, token.TypeAccess, e.config.Token.AccessTTL, active, now)
	if err != nil {
		return token.Pair{}, err
	}
	refresh, err := e.mint(subject, custom, token.TypeRefresh, e.config.Token.RefreshTTL, active, now)
	if err != nil {
		return token.Pair{}, err
	}

	e.inc(MetricIssue)
	return token.Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// mint builds, encodes, and signs a single token under the given key record.
// Each call draws a fresh random 128-bit token id.
func (e *Engine) mint(subject string, custom map[string]any, typ token.Type, ttl time.Duration, key keyring.Record, now time.Time) (string, error) {
	claims := token.ClaimSet{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
		TokenID:   uuid.NewString(),
		TokenType: typ,
		Issuer:    e.config.Token.Issuer,
		Custom:    custom,
	}
	header := token.Header{
		Alg: key.Algorithm,
		Typ: token.HeaderType,
		Kid: key.KeyID,
	}

	signingInput, err := token.Encode(header, claims)
	if err != nil {
		return "", err
	}
	method, err := sign.ByName(key.Algorithm)
	if err != nil {
		return "", err
	}
	sig, err := method.Sign(signingInput, key.Secret)
	if err != nil {
		return "", err
	}
	return token.Assemble(signingInput, sig), nil
}

// Validate runs the full validation pipeline against the engine clock and
// returns the claim set on success. Failures are terminal and side-effect
// free; each maps to exactly one sentinel (see Kind).
func (e *Engine) Validate(ctx context.Context, wire string, expected token.Type) (*token.ClaimSet, error) {
	return e.ValidateAt(ctx, wire, e.clock(), expected)
}

// ValidateAt is Validate with an explicit evaluation instant.
//
// Pipeline order is fixed: structure, key, signature, expiry, type,
// revocation. Nothing after a failing stage executes, so a forged token can
// never cause a revocation-store read.
func (e *Engine) ValidateAt(ctx context.Context, wire string, now time.Time, expected token.Type) (*token.ClaimSet, error) {
	claims, err := e.checkSigned(wire, now)
	if err != nil {
		e.inc(MetricValidateFailure)
		return nil, err
	}

	if !now.Before(claims.ExpiresAtTime().Add(e.config.Token.Leeway)) {
		e.inc(MetricValidateFailure)
		return nil, fmt.Errorf("%w: expired at %s", ErrTokenExpired, claims.ExpiresAtTime().Format(time.RFC3339))
	}
	if claims.TokenType != expected {
		e.inc(MetricValidateFailure)
		return nil, fmt.Errorf("%w: got %s, want %s", ErrTokenTypeMismatch, claims.TokenType, expected)
	}

	revoked, err := e.store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		e.inc(MetricValidateFailure)
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if revoked {
		e.inc(MetricValidateFailure)
		return nil, fmt.Errorf("%w: %s", ErrTokenRevoked, claims.TokenID)
	}

	e.inc(MetricValidateSuccess)
	return claims, nil
}

// checkSigned performs the stateless front half of validation: decode, key
// lookup, signature verification, and claim-origin checks. Shared by
// ValidateAt and RevokeToken.
func (e *Engine) checkSigned(wire string, now time.Time) (*token.ClaimSet, error) {
	decoded, err := token.Decode(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	key, err := e.keys.VerificationKey(decoded.Header.Kid, now)
	if err != nil {
		return nil, fmt.Errorf("%w: kid %q", ErrUnknownKey, decoded.Header.Kid)
	}
	if decoded.Header.Alg != key.Algorithm {
		// The header picked a routine the key record was not provisioned
		// for; treat it like any other wrong-key signature.
		return nil, fmt.Errorf("%w: algorithm %q does not match key %q", ErrInvalidSignature, decoded.Header.Alg, key.KeyID)
	}

	method, err := sign.ByName(decoded.Header.Alg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if err := method.Verify(decoded.SigningInput, decoded.Signature, key.Secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims := decoded.Claims
	if e.config.Token.Issuer != "" && claims.Issuer != e.config.Token.Issuer {
		return nil, fmt.Errorf("%w: %q", ErrIssuerMismatch, claims.Issuer)
	}
	if e.config.Token.MaxFutureIAT > 0 && claims.IssuedAtTime().After(now.Add(e.config.Token.MaxFutureIAT)) {
		return nil, fmt.Errorf("%w: iat too far in the future", ErrMalformedToken)
	}
	return &claims, nil
}

// RotateKey publishes next as the active signing key. Tokens signed under
// prior keys keep validating until those keys' NotAfter.
func (e *Engine) RotateKey(next keyring.Record) error {
	if err := e.keys.Rotate(next); err != nil {
		return err
	}
	e.inc(MetricKeyRotation)
	return nil
}

// MetricsSnapshot returns the current counter values, all zero when metrics
// are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.snapshot()
}

// Close stops the background purge janitor. Idempotent; in-flight operations
// are unaffected.
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.closed) })
}

// janitor periodically purges expired revocation entries. Purge failures are
// logged and retried on the next tick.
func (e *Engine) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.closed:
			return
		case <-ticker.C:
			if _, err := e.store.PurgeExpired(context.Background(), e.clock()); err != nil {
				log.Printf("tokencore: revocation purge failed: %v", err)
			}
		}
	}
}

func (e *Engine) inc(id MetricID) {
	if e.metrics != nil {
		e.metrics.inc(id)
	}
}
