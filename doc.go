// Package tokencore provides a standalone token-authentication core: JWT
// issuance, signature verification, single-use refresh-token rotation, and
// revocation under concurrent access.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// tokencore is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types (MetricsSnapshot, FailureKind). The wire
// codec lives in the token package, key material in keyring, the revocation
// blacklist in revocation, and signature routines under internal/ where they
// are never exported.
//
// # What this package must NOT do
//
//   - Speak HTTP: bearer extraction, status mapping, and routing belong to
//     the caller.
//   - Persist anything beyond revocation entries (an issued token's validity
//     is implicit in its absence from the revocation store).
//   - Downgrade a validation failure to success; every failure surfaces a
//     distinct sentinel matched with errors.Is.
//
// # Performance contract
//
// Validate is the hot path: decode, one keyring read-lock, one HMAC, one
// revocation-store read. Issue and Refresh are allowed one store round-trip;
// Refresh's conditional insert is the only write that can contend.
package tokencore
