// Package keyring holds signing key material and supports rotation without
// interrupting in-flight verification. Exactly one record is active for
// signing at any time; every non-expired record remains valid for
// verification, so tokens signed under a prior key keep validating until
// that key's NotAfter passes.
package keyring

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/veilauth/tokencore/internal/sign"
)

var (
	// ErrNoKey is returned when a kid is absent or outside its validity window.
	ErrNoKey = errors.New("key not found")
	// ErrDuplicateKey is returned when rotating in a kid that already exists.
	ErrDuplicateKey = errors.New("key id already registered")
)

// Record is one unit of key material. A zero NotAfter means the key never
// expires for verification; NotBefore and NotAfter bound the window in which
// the record may verify tokens.
type Record struct {
	KeyID     string
	Algorithm string
	Secret    []byte
	NotBefore time.Time
	NotAfter  time.Time
}

func (r Record) validate() error {
	if r.KeyID == "" {
		return errors.New("key record missing kid")
	}
	if _, err := sign.ByName(r.Algorithm); err != nil {
		return err
	}
	if len(r.Secret) < 32 {
		return fmt.Errorf("key %q: %w", r.KeyID, sign.ErrKeyTooShort)
	}
	if !r.NotAfter.IsZero() && !r.NotAfter.After(r.NotBefore) {
		return fmt.Errorf("key %q: NotAfter precedes NotBefore", r.KeyID)
	}
	return nil
}

// usableAt reports whether the record may verify at the given instant.
func (r Record) usableAt(now time.Time) bool {
	if now.Before(r.NotBefore) {
		return false
	}
	if !r.NotAfter.IsZero() && !now.Before(r.NotAfter) {
		return false
	}
	return true
}

// Keyring is a thread-safe kid-indexed store of Records. Readers never
// observe a half-updated record: Rotate swaps the active pointer under the
// write lock and copies are returned by value.
type Keyring struct {
	mu       sync.RWMutex
	records  map[string]Record
	activeID string
}

// New builds a Keyring with a single record that is immediately active.
func New(active Record) (*Keyring, error) {
	if err := active.validate(); err != nil {
		return nil, err
	}
	return &Keyring{
		records:  map[string]Record{active.KeyID: active},
		activeID: active.KeyID,
	}, nil
}

// Active returns a copy of the current signing record.
func (k *Keyring) Active() Record {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.records[k.activeID]
}

// Rotate registers next and makes it the active signer. Prior records are
// retained and keep verifying until their NotAfter. Safe to call while
// validations are in flight.
func (k *Keyring) Rotate(next Record) error {
	if err := next.validate(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.records[next.KeyID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, next.KeyID)
	}
	k.records[next.KeyID] = next
	k.activeID = next.KeyID
	return nil
}

// Retire caps a record's verification window at notAfter. Retiring the
// active key is rejected; rotate first.
func (k *Keyring) Retire(kid string, notAfter time.Time) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if kid == k.activeID {
		return errors.New("cannot retire the active signing key")
	}
	rec, ok := k.records[kid]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoKey, kid)
	}
	rec.NotAfter = notAfter
	k.records[kid] = rec
	return nil
}

// VerificationKey resolves a kid for verification at the given instant.
// Absent and expired records are indistinguishable to the caller.
func (k *Keyring) VerificationKey(kid string, now time.Time) (Record, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	rec, ok := k.records[kid]
	if !ok || !rec.usableAt(now) {
		return Record{}, fmt.Errorf("%w: %q", ErrNoKey, kid)
	}
	return rec, nil
}

// Len reports how many records the ring currently holds.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.records)
}
