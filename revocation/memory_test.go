package revocation

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryRevokeAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if revoked, err := store.IsRevoked(ctx, "jti-1"); err != nil || revoked {
		t.Fatalf("unexpected initial state: %v %v", revoked, err)
	}

	expiry := time.Now().Add(time.Hour)
	if err := store.Revoke(ctx, "jti-1", expiry); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked, err := store.IsRevoked(ctx, "jti-1"); err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}

	// Idempotent: revoking again must not error or shorten the entry.
	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("repeat Revoke failed: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("entry lost after repeat revoke")
	}
}

func TestMemoryExpiredEntryReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Revoke(ctx, "jti-old", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked, err := store.IsRevoked(ctx, "jti-old"); err != nil || revoked {
		t.Fatalf("expired entry should read as absent, got %v %v", revoked, err)
	}
}

func TestMemoryRevokeIfAbsentSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	expiry := time.Now().Add(time.Hour)

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			inserted, err := store.RevokeIfAbsent(ctx, "jti-contested", expiry)
			if err != nil {
				t.Errorf("RevokeIfAbsent failed: %v", err)
			}
			results <- inserted
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	winners := 0
	for inserted := range results {
		if inserted {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestMemoryRevokeIfAbsentTreatsExpiredAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	inserted, err := store.RevokeIfAbsent(ctx, "jti-2", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("RevokeIfAbsent failed: %v", err)
	}
	if !inserted {
		t.Fatal("expired entry should not block a new insert")
	}
}

func TestMemoryPurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	if err := store.Revoke(ctx, "live", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := store.Revoke(ctx, "dead-1", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := store.Revoke(ctx, "dead-2", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	purged, err := store.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if purged != 2 {
		t.Fatalf("expected 2 purged, got %d", purged)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", store.Len())
	}
	// Purge must never drop a live entry.
	if revoked, _ := store.IsRevoked(ctx, "live"); !revoked {
		t.Fatal("live entry lost to purge")
	}
}
