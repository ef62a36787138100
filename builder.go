package tokencore

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veilauth/tokencore/keyring"
	"github.com/veilauth/tokencore/revocation"
)

// Builder assembles an Engine from configuration and injected dependencies.
//
// Builder instances are single-use: Build consumes the builder and further
// calls to Build fail.
type Builder struct {
	config Config
	redis  *redis.Client
	store  revocation.Store
	keys   *keyring.Keyring
	clock  func() time.Time

	built bool
}

// New returns a Builder seeded with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration with a clone of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects a redis-backed revocation store built on client. Ignored
// when WithRevocationStore supplies a store explicitly.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithRevocationStore injects a custom revocation backend.
func (b *Builder) WithRevocationStore(store revocation.Store) *Builder {
	b.store = store
	return b
}

// WithKeyring injects pre-built key material, overriding Config.Keys.
func (b *Builder) WithKeyring(k *keyring.Keyring) *Builder {
	b.keys = k
	return b
}

// WithClock overrides the engine's time source. Intended for tests; the
// default is time.Now.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build validates configuration, wires defaults for anything not injected,
// and returns a ready Engine. The builder cannot be reused afterwards.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	keys := b.keys
	if keys == nil {
		if b.config.Keys.ActiveKeyID == "" {
			return nil, errors.New("either WithKeyring or Config.Keys.ActiveKeyID is required")
		}
		var err error
		keys, err = keyring.New(keyring.Record{
			KeyID:     b.config.Keys.ActiveKeyID,
			Algorithm: b.config.Keys.SigningAlgorithm,
			Secret:    b.config.Keys.Secret,
		})
		if err != nil {
			return nil, err
		}
	}

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = revocation.NewRedisStore(b.redis, b.config.Revocation.RedisPrefix)
		} else {
			store = revocation.NewMemoryStore()
		}
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	var m *Metrics
	if b.config.Metrics.Enabled {
		m = newMetrics()
	}

	e := &Engine{
		config:  b.config,
		keys:    keys,
		store:   store,
		clock:   clock,
		metrics: m,
		closed:  make(chan struct{}),
	}

	if b.config.Revocation.PurgeInterval > 0 {
		go e.janitor(b.config.Revocation.PurgeInterval)
	}

	return e, nil
}
