// Package sign implements the signature engine: HMAC-SHA2 signing and
// constant-time verification over an encoded signing input.
//
// Methods are looked up by the algorithm name carried in a token header.
// The registry only ever returns keyed algorithms; "none" and anything
// unrecognized fail the lookup. Adding an asymmetric method means adding a
// Method implementation and a registry entry; codec and engine contracts
// do not change.
//
// # What this package must NOT do
//
//   - Decode or interpret token segments.
//   - Compare signatures with anything other than hmac.Equal.
//   - Be imported from outside the tokencore module.
package sign
