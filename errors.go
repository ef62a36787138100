package tokencore

import "errors"

var (
	// ErrMalformedToken is an exported sentinel returned by the token engine.
	ErrMalformedToken = errors.New("malformed token")
	// ErrUnknownKey is an exported sentinel returned by the token engine.
	ErrUnknownKey = errors.New("unknown signing key")
	// ErrInvalidSignature is an exported sentinel returned by the token engine.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired is an exported sentinel returned by the token engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenTypeMismatch is an exported sentinel returned by the token engine.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
	// ErrTokenRevoked is an exported sentinel returned by the token engine.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrIssuerMismatch is an exported sentinel returned by the token engine.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
	// ErrStoreUnavailable is an exported sentinel returned by the token engine.
	ErrStoreUnavailable = errors.New("revocation store unavailable")
)

// FailureKind classifies validation failures for callers that route recovery
// by kind rather than by sentinel: an expired access token triggers the
// refresh flow, a revoked one forces re-authentication.
type FailureKind int

const (
	// FailureNone means the operation succeeded.
	FailureNone FailureKind = iota
	// FailureMalformed covers structurally invalid input.
	FailureMalformed
	// FailureUnknownKey covers headers referencing a key not held.
	FailureUnknownKey
	// FailureSignature covers tampered tokens and wrong-key signatures.
	FailureSignature
	// FailureExpired covers tokens past their expiry.
	FailureExpired
	// FailureTypeMismatch covers a token presented as the wrong type.
	FailureTypeMismatch
	// FailureRevoked covers blacklisted tokens, including rotated refresh tokens.
	FailureRevoked
	// FailureIssuerMismatch covers tokens from a different trust domain.
	FailureIssuerMismatch
	// FailureInternal covers backend outages and everything unclassified.
	FailureInternal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMalformed:
		return "malformed"
	case FailureUnknownKey:
		return "unknown_key"
	case FailureSignature:
		return "invalid_signature"
	case FailureExpired:
		return "expired"
	case FailureTypeMismatch:
		return "type_mismatch"
	case FailureRevoked:
		return "revoked"
	case FailureIssuerMismatch:
		return "issuer_mismatch"
	default:
		return "internal"
	}
}

// Kind maps an engine error onto its FailureKind. Together with the error
// message this forms the structured (kind, message) pair reported to callers;
// HTTP status mapping is the caller's concern.
func Kind(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrMalformedToken):
		return FailureMalformed
	case errors.Is(err, ErrUnknownKey):
		return FailureUnknownKey
	case errors.Is(err, ErrInvalidSignature):
		return FailureSignature
	case errors.Is(err, ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, ErrTokenTypeMismatch):
		return FailureTypeMismatch
	case errors.Is(err, ErrTokenRevoked):
		return FailureRevoked
	case errors.Is(err, ErrIssuerMismatch):
		return FailureIssuerMismatch
	default:
		return FailureInternal
	}
}
