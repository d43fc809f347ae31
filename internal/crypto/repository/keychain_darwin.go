//go:build darwin && cgo

package repository

import (
	"context"
	"fmt"

	"github.com/keybase/go-keychain"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// KeychainKeyStore keeps data keys as generic-password items in the macOS
// keychain. Items are only accessible while the device is unlocked and are
// never synchronized to other devices.
type KeychainKeyStore struct {
	service string
}

// NewKeychainKeyStore returns a keystore whose items use the service name
// "<keychainServicePrefix>.<namespace>".
func NewKeychainKeyStore(namespace string) (*KeychainKeyStore, error) {
	return &KeychainKeyStore{service: keychainService(namespace)}, nil
}

// Get returns the key stored under identifier.
func (k *KeychainKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := keychain.GetGenericPassword(k.service, identifier, "", "")
	switch {
	case err == keychain.ErrorItemNotFound:
		return nil, cryptoDomain.ErrKeyNotFound
	case err == keychain.ErrorAuthFailed || err == keychain.ErrorInteractionNotAllowed:
		return nil, cryptoDomain.ErrAccessDenied
	case err != nil:
		return nil, fmt.Errorf("failed to read keychain item: %w", err)
	case data == nil:
		return nil, cryptoDomain.ErrKeyNotFound
	}
	defer cryptoDomain.Zero(data)

	return cryptoDomain.UnmarshalKeystoreEntry(data)
}

// Put adds a new keychain item for key.
func (k *KeychainKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := cryptoDomain.MarshalKeystoreEntry(key)
	if err != nil {
		return fmt.Errorf("failed to encode keystore entry: %w", err)
	}
	defer cryptoDomain.Zero(data)

	item := keychain.NewGenericPassword(k.service, key.Identifier, "", data, "")
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleWhenUnlocked)

	switch err := keychain.AddItem(item); {
	case err == keychain.ErrorDuplicateItem:
		return cryptoDomain.ErrKeyAlreadyExists
	case err != nil:
		return fmt.Errorf("failed to add keychain item: %w", err)
	}
	return nil
}

// Delete removes the keychain item for identifier.
func (k *KeychainKeyStore) Delete(ctx context.Context, identifier string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := keychain.DeleteGenericPasswordItem(k.service, identifier)
	if err != nil && err != keychain.ErrorItemNotFound {
		return fmt.Errorf("failed to delete keychain item: %w", err)
	}
	return nil
}

// Exists reports whether a keychain item exists for identifier.
func (k *KeychainKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	accounts, err := keychain.GetGenericPasswordAccounts(k.service)
	if err != nil {
		return false, fmt.Errorf("failed to list keychain items: %w", err)
	}
	for _, account := range accounts {
		if account == identifier {
			return true, nil
		}
	}
	return false, nil
}
