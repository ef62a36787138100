package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces revocation keys so the store can share a
// database with other workloads.
const DefaultRedisPrefix = "tokencore:revoked:"

// ErrRedisUnavailable wraps transport failures so callers can distinguish
// backend outage from a definitive revocation answer.
var ErrRedisUnavailable = errors.New("revocation backend unavailable")

// RedisStore implements Store on a shared redis instance. Entries use native
// key TTLs, so redis expires them without any purge pass, and SET NX gives
// the conditional insert its linearizability across processes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(tokenID string) string {
	return r.prefix + tokenID
}

// Revoke writes the entry unconditionally with the token's remaining
// lifetime as TTL. Revoking an already-expired token is a no-op.
func (r *RedisStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(tokenID), "1", ttl).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// minConditionalTTL floors the TTL of conditional inserts. A winner must
// always leave an entry behind, even when the deadline has already passed,
// or two callers racing at the boundary could both observe true.
const minConditionalTTL = time.Second

// RevokeIfAbsent is a single SET NX round trip; redis serializes concurrent
// callers so exactly one observes true.
func (r *RedisStore) RevokeIfAbsent(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl < minConditionalTTL {
		ttl = minConditionalTTL
	}
	inserted, err := r.client.SetNX(ctx, r.key(tokenID), "1", ttl).Result()
	if err != nil {
		return false, errors.Join(ErrRedisUnavailable, err)
	}
	return inserted, nil
}

// IsRevoked checks key existence; expired entries have already been dropped
// by redis itself.
func (r *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, errors.Join(ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// PurgeExpired is a no-op: key TTLs make redis purge on its own schedule.
func (r *RedisStore) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
