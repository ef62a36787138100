package token

import (
	"encoding/json"
	"fmt"
	"time"
)

// HeaderType is the fixed "typ" header value for every token this package emits.
const HeaderType = "JWT"

// Type distinguishes access tokens from refresh tokens. The type is a signed
// claim, so a refresh token can never be replayed as an access token.
type Type uint8

const (
	// TypeAccess marks short-lived tokens presented on ordinary requests.
	TypeAccess Type = iota + 1
	// TypeRefresh marks long-lived, single-use tokens consumed by the refresh flow.
	TypeRefresh
)

func (t Type) String() string {
	switch t {
	case TypeAccess:
		return "access"
	case TypeRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the type as its string form so the wire format stays
// readable and stable across versions.
func (t Type) MarshalJSON() ([]byte, error) {
	switch t {
	case TypeAccess, TypeRefresh:
		return json.Marshal(t.String())
	default:
		return nil, fmt.Errorf("invalid token type %d", uint8(t))
	}
}

// UnmarshalJSON accepts only the two known string forms.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "access":
		*t = TypeAccess
	case "refresh":
		*t = TypeRefresh
	default:
		return fmt.Errorf("invalid token type %q", s)
	}
	return nil
}

// Header carries the signing algorithm and key identifier. The verifier reads
// alg and kid from here to select the verification routine and key record.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
	Kid string `json:"kid"`
}

// ClaimSet is the semantic payload of a token. Subject and TokenID are opaque
// to this package; TokenID doubles as the revocation key.
type ClaimSet struct {
	Subject   string         `json:"sub"`
	IssuedAt  int64          `json:"iat"`
	ExpiresAt int64          `json:"exp"`
	TokenID   string         `json:"jti"`
	TokenType Type           `json:"typ"`
	Issuer    string         `json:"iss,omitempty"`
	Custom    map[string]any `json:"cst,omitempty"`
}

// IssuedAtTime returns the iat claim as a time.Time in UTC.
func (c *ClaimSet) IssuedAtTime() time.Time {
	return time.Unix(c.IssuedAt, 0).UTC()
}

// ExpiresAtTime returns the exp claim as a time.Time in UTC.
func (c *ClaimSet) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0).UTC()
}

// structurallyValid reports whether the decoded claim set carries every
// required claim with sane values. Anything less is a malformed token, not a
// merely-invalid one.
func (c *ClaimSet) structurallyValid() bool {
	if c.Subject == "" || c.TokenID == "" {
		return false
	}
	if c.TokenType != TypeAccess && c.TokenType != TypeRefresh {
		return false
	}
	if c.IssuedAt <= 0 || c.ExpiresAt <= c.IssuedAt {
		return false
	}
	return true
}

// Pair bundles the two tokens minted by a single issue or refresh call.
type Pair struct {
	AccessToken  string
	RefreshToken string
}
