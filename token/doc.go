// Package token defines the wire representation of access and refresh tokens:
// the header/claim-set data model, the canonical three-segment encoding, and
// strict structural decoding.
//
// # Design
//
// Encoding is canonical: headers and claim sets are structs with a fixed
// field order and caller claims live in a nested map whose keys encoding/json
// sorts, so the same logical token always produces the same signing input.
// Decoding is purely structural: segments are split and unmarshaled under
// strict charset and size checks, and nothing the decoder returns carries
// any trust.
//
// # What this package must NOT do
//
//   - Verify signatures or consult key material (that is internal/sign and
//     the engine's job).
//   - Mutate a decoded token or grant any partial trust on failure.
//   - Import any other tokencore package.
package token
