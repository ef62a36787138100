// Package revocation provides the blacklist of revoked token ids consulted
// by validation and mutated by refresh rotation and explicit revoke calls.
//
// # Design
//
// The store is the one contended shared resource in the engine. Its
// RevokeIfAbsent operation is the linearization point for refresh rotation:
// a single conditional insert decides which of several concurrent refresh
// calls wins, so implementations must make it atomic (a mutex-guarded
// check-and-set in memory, SET NX on redis).
//
// Entries carry the revoked token's own expiry. Purging an entry after that
// expiry can never resurrect the token, because the token has already
// expired naturally.
//
// # What this package must NOT do
//
//   - Parse or verify tokens; it only sees opaque ids.
//   - Drop an entry before its expiry.
package revocation
