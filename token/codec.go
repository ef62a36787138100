package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned for any structural decoding failure. Callers must
// treat it as terminal: nothing from a malformed token may be trusted.
var ErrMalformed = errors.New("malformed token")

const (
	// maxWireLength caps the whole wire string before any parsing happens.
	maxWireLength = 8192
	// maxSegmentLength caps each individual segment.
	maxSegmentLength = 4096
)

// Encode produces the signing input for a token: the base64url-encoded header
// and claim set joined by a dot. The signature segment is appended by
// Assemble once the signature engine has signed this exact string.
func Encode(h Header, c ClaimSet) (string, error) {
	if h.Alg == "" || h.Kid == "" {
		return "", errors.New("header missing alg or kid")
	}
	if !c.structurallyValid() {
		return "", errors.New("claim set incomplete")
	}
	hb, err := json.Marshal(h)
	if err != nil {
		return "", err
	}
	cb, err := json.Marshal(&c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(hb) + "." + base64.RawURLEncoding.EncodeToString(cb), nil
}

// Assemble joins a signing input and a raw signature into the final wire string.
func Assemble(signingInput string, sig []byte) string {
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// Decoded is the structural view of a wire token. SigningInput is the exact
// byte-for-byte prefix the signature was computed over.
type Decoded struct {
	Header       Header
	Claims       ClaimSet
	SigningInput string
	Signature    []byte
}

// Decode splits and unmarshals a wire token without verifying anything.
// Every failure is reported as ErrMalformed; partial results are never
// returned. The unsigned "none" algorithm is rejected here so it can never
// reach a verification routine.
func Decode(wire string) (*Decoded, error) {
	if wire == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if len(wire) > maxWireLength {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrMalformed, maxWireLength)
	}

	h64, c64, s64, ok := split3(wire)
	if !ok {
		return nil, fmt.Errorf("%w: expected three dot-separated segments", ErrMalformed)
	}

	var d Decoded
	if err := decodeSegment(h64, &d.Header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if d.Header.Typ != HeaderType {
		return nil, fmt.Errorf("%w: unexpected header typ %q", ErrMalformed, d.Header.Typ)
	}
	if d.Header.Kid == "" {
		return nil, fmt.Errorf("%w: header missing kid", ErrMalformed)
	}
	if alg := strings.ToLower(d.Header.Alg); alg == "" || alg == "none" {
		return nil, fmt.Errorf("%w: unsigned algorithm rejected", ErrMalformed)
	}

	if err := decodeSegment(c64, &d.Claims); err != nil {
		return nil, fmt.Errorf("%w: claims: %v", ErrMalformed, err)
	}
	if !d.Claims.structurallyValid() {
		return nil, fmt.Errorf("%w: claim set incomplete", ErrMalformed)
	}

	if len(s64) == 0 || len(s64) > maxSegmentLength || !isBase64URL(s64) {
		return nil, fmt.Errorf("%w: signature segment invalid", ErrMalformed)
	}
	sig, err := base64.RawURLEncoding.DecodeString(s64)
	if err != nil {
		return nil, fmt.Errorf("%w: signature segment invalid", ErrMalformed)
	}

	d.SigningInput = wire[:len(h64)+1+len(c64)]
	d.Signature = sig
	return &d, nil
}

// split3 splits s on exactly two dots without allocating. A third dot means
// the input is not a three-segment token.
func split3(s string) (string, string, string, bool) {
	first := strings.IndexByte(s, '.')
	if first < 0 {
		return "", "", "", false
	}
	rest := s[first+1:]
	second := strings.IndexByte(rest, '.')
	if second < 0 {
		return "", "", "", false
	}
	tail := rest[second+1:]
	if strings.IndexByte(tail, '.') >= 0 {
		return "", "", "", false
	}
	return s[:first], rest[:second], tail, true
}

func decodeSegment(seg string, dest any) error {
	if len(seg) == 0 {
		return errors.New("empty segment")
	}
	if len(seg) > maxSegmentLength {
		return fmt.Errorf("segment exceeds %d bytes", maxSegmentLength)
	}
	if !isBase64URL(seg) {
		return errors.New("invalid base64url characters")
	}
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// isBase64URL reports whether s contains only the unpadded URL-safe alphabet.
// Strict charset validation keeps padding and injection variants out of the
// decoder entirely.
func isBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
