//go:build !darwin || !cgo

package repository

import (
	"context"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// KeychainKeyStore is only available on macOS builds with cgo enabled.
type KeychainKeyStore struct{}

// NewKeychainKeyStore always fails with ErrKeystoreUnsupported on this platform.
func NewKeychainKeyStore(namespace string) (*KeychainKeyStore, error) {
	return nil, cryptoDomain.ErrKeystoreUnsupported
}

func (k *KeychainKeyStore) Get(context.Context, string) (*cryptoDomain.DataKey, error) {
	return nil, cryptoDomain.ErrKeystoreUnsupported
}

func (k *KeychainKeyStore) Put(context.Context, *cryptoDomain.DataKey) error {
	return cryptoDomain.ErrKeystoreUnsupported
}

func (k *KeychainKeyStore) Delete(context.Context, string) error {
	return cryptoDomain.ErrKeystoreUnsupported
}

func (k *KeychainKeyStore) Exists(context.Context, string) (bool, error) {
	return false, cryptoDomain.ErrKeystoreUnsupported
}
