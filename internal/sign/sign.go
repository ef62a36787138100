package sign

import (
	"crypto"
	"crypto/hmac"
	"errors"
	"fmt"
	"strings"

	_ "crypto/sha256"
	_ "crypto/sha512"
)

var (
	// ErrUnsupportedAlgorithm is returned when no keyed method matches the
	// requested algorithm name, including the explicit "none" rejection.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	// ErrSignatureMismatch is returned when a signature does not verify.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrKeyTooShort is returned for HMAC keys below the minimum length.
	ErrKeyTooShort = errors.New("signing key too short")
)

// minHMACKeyLen enforces RFC 2104 guidance: the key must be at least as long
// as the hash output for the weakest supported method.
const minHMACKeyLen = 32

// Method signs and verifies a signing input with a symmetric key. All
// implementations must verify in constant time with respect to key and
// signature material.
type Method interface {
	Alg() string
	Sign(signingInput string, key []byte) ([]byte, error)
	Verify(signingInput string, sig []byte, key []byte) error
}

type hmacMethod struct {
	name string
	hash crypto.Hash
}

func (m *hmacMethod) Alg() string { return m.name }

func (m *hmacMethod) Sign(signingInput string, key []byte) ([]byte, error) {
	if len(key) < minHMACKeyLen {
		return nil, fmt.Errorf("%w: %s requires at least %d bytes", ErrKeyTooShort, m.name, minHMACKeyLen)
	}
	h := hmac.New(m.hash.New, key)
	h.Write([]byte(signingInput))
	return h.Sum(nil), nil
}

func (m *hmacMethod) Verify(signingInput string, sig []byte, key []byte) error {
	expected, err := m.Sign(signingInput, key)
	if err != nil {
		return err
	}
	// hmac.Equal is constant time; no early exit on byte position.
	if !hmac.Equal(sig, expected) {
		return ErrSignatureMismatch
	}
	return nil
}

var (
	methodHS256 = &hmacMethod{"HS256", crypto.SHA256}
	methodHS384 = &hmacMethod{"HS384", crypto.SHA384}
	methodHS512 = &hmacMethod{"HS512", crypto.SHA512}
)

// ByName resolves an algorithm name from a token header to a Method. Lookup
// is case-sensitive on purpose: "hs256" is not a valid JOSE alg value.
func ByName(alg string) (Method, error) {
	switch alg {
	case "HS256":
		return methodHS256, nil
	case "HS384":
		return methodHS384, nil
	case "HS512":
		return methodHS512, nil
	default:
		if strings.EqualFold(alg, "none") {
			return nil, fmt.Errorf("%w: unsigned tokens are rejected", ErrUnsupportedAlgorithm)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}
