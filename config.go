package tokencore

import (
	"errors"
	"maps"
	"time"
)

// Config defines the engine's configuration surface.
//
// Config instances are intended to be set up before Build and treated as
// immutable afterwards; Build stores a defensive clone.
type Config struct {
	Token      TokenConfig
	Keys       KeyConfig
	Revocation RevocationConfig
	Metrics    MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls token lifetimes and claim validation.
type TokenConfig struct {
	// AccessTTL is the access-token lifetime. Default 15 minutes.
	AccessTTL time.Duration
	// RefreshTTL is the refresh-token lifetime. Default 14 days.
	RefreshTTL time.Duration
	// Issuer, when set, is stamped into every claim set and enforced on
	// validation.
	Issuer string
	// Leeway tolerates clock skew on expiry checks. Capped at 2 minutes.
	Leeway time.Duration
	// MaxFutureIAT rejects tokens whose issued-at lies further than this in
	// the future. Default 10 minutes.
	MaxFutureIAT time.Duration
}

/*
====================================
KEY CONFIG
====================================
*/

// KeyConfig describes the initial signing key when no Keyring is supplied to
// the builder directly.
type KeyConfig struct {
	// SigningAlgorithm selects the signature method ("HS256", "HS384",
	// "HS512"). Default "HS256".
	SigningAlgorithm string
	// ActiveKeyID is the kid stamped into issued token headers.
	ActiveKeyID string
	// Secret is the symmetric key material, minimum 32 bytes.
	Secret []byte
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig controls the blacklist backend.
type RevocationConfig struct {
	// RedisPrefix namespaces revocation keys when a redis backend is used.
	RedisPrefix string
	// PurgeInterval runs a background purge of expired entries when
	// positive. Zero disables the janitor; in-memory stores still purge
	// lazily on insert.
	PurgeInterval time.Duration
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the engine's atomic counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:    15 * time.Minute,
			RefreshTTL:   14 * 24 * time.Hour,
			MaxFutureIAT: 10 * time.Minute,
		},
		Keys: KeyConfig{
			SigningAlgorithm: "HS256",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Keys.Secret != nil {
		out.Keys.Secret = make([]byte, len(cfg.Keys.Secret))
		copy(out.Keys.Secret, cfg.Keys.Secret)
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.Token.AccessTTL <= 0 {
		return errors.New("invalid AccessTTL configuration")
	}
	if cfg.Token.RefreshTTL <= cfg.Token.AccessTTL {
		return errors.New("RefreshTTL must exceed AccessTTL")
	}
	if cfg.Token.Leeway < 0 || cfg.Token.Leeway > 2*time.Minute {
		return errors.New("invalid Leeway configuration")
	}
	if cfg.Token.MaxFutureIAT < 0 || cfg.Token.MaxFutureIAT > 24*time.Hour {
		return errors.New("invalid MaxFutureIAT configuration")
	}
	if cfg.Revocation.PurgeInterval < 0 {
		return errors.New("invalid PurgeInterval configuration")
	}
	return nil
}

// cloneClaims copies a caller-supplied claim map so issued tokens never alias
// caller state.
func cloneClaims(custom map[string]any) map[string]any {
	if len(custom) == 0 {
		return nil
	}
	return maps.Clone(custom)
}
