package repository

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// keyStore is the contract the decorators wrap.
type keyStore interface {
	Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error)
	Put(ctx context.Context, key *cryptoDomain.DataKey) error
	Delete(ctx context.Context, identifier string) error
	Exists(ctx context.Context, identifier string) (bool, error)
}

// keeper wraps and unwraps key material. *secrets.Keeper satisfies it.
type keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// KMSKeyStore wraps key material with a KMS keeper before it reaches the
// underlying store, so the store only ever holds wrapped keys.
type KMSKeyStore struct {
	next   keyStore
	keeper keeper
}

// NewKMSKeyStore decorates next with KMS wrapping.
func NewKMSKeyStore(next keyStore, keeper keeper) *KMSKeyStore {
	return &KMSKeyStore{next: next, keeper: keeper}
}

// Get loads the wrapped key and unwraps it.
func (k *KMSKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	wrapped, err := k.next.Get(ctx, identifier)
	if err != nil {
		return nil, err
	}
	defer wrapped.Zero()

	plain, err := k.keeper.Decrypt(ctx, wrapped.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap data key: %w", err)
	}

	key := *wrapped
	key.Key = plain
	return &key, nil
}

// Put wraps the key material and stores the result.
func (k *KMSKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	wrappedKey, err := k.keeper.Encrypt(ctx, key.Key)
	if err != nil {
		return fmt.Errorf("failed to wrap data key: %w", err)
	}

	wrapped := *key
	wrapped.Key = wrappedKey
	return k.next.Put(ctx, &wrapped)
}

// Delete delegates to the underlying store.
func (k *KMSKeyStore) Delete(ctx context.Context, identifier string) error {
	return k.next.Delete(ctx, identifier)
}

// Exists delegates to the underlying store.
func (k *KMSKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	return k.next.Exists(ctx, identifier)
}
