package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

const badgerKeyPrefix = "key/"

// BadgerKeyStore keeps JSON KeystoreEntry values in a badger database under
// "key/<identifier>".
type BadgerKeyStore struct {
	db *badger.DB
}

// OpenBadgerKeyStore opens (or creates) a badger database in dir.
func OpenBadgerKeyStore(dir string) (*BadgerKeyStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger keystore: %w", err)
	}
	return &BadgerKeyStore{db: db}, nil
}

// NewBadgerKeyStore wraps an already opened badger database.
func NewBadgerKeyStore(db *badger.DB) *BadgerKeyStore {
	return &BadgerKeyStore{db: db}
}

func badgerKey(identifier string) []byte {
	return []byte(badgerKeyPrefix + identifier)
}

// Get returns the key stored under identifier.
func (b *BadgerKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(identifier))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, cryptoDomain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read badger keystore: %w", err)
	}
	defer cryptoDomain.Zero(data)

	return cryptoDomain.UnmarshalKeystoreEntry(data)
}

// Put stores key within a single transaction that also checks for an existing entry.
func (b *BadgerKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := cryptoDomain.MarshalKeystoreEntry(key)
	if err != nil {
		return fmt.Errorf("failed to encode keystore entry: %w", err)
	}
	defer cryptoDomain.Zero(data)

	k := badgerKey(key.Identifier)
	err = b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(k)
		if err == nil {
			return cryptoDomain.ErrKeyAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(k, data)
	})
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrKeyAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to write badger keystore: %w", err)
	}
	return nil
}

// Delete removes the key stored under identifier.
func (b *BadgerKeyStore) Delete(ctx context.Context, identifier string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(identifier))
	})
	if err != nil {
		return fmt.Errorf("failed to delete from badger keystore: %w", err)
	}
	return nil
}

// Exists reports whether a key is stored under identifier.
func (b *BadgerKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerKey(identifier))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read badger keystore: %w", err)
	}
}

// Close closes the underlying database.
func (b *BadgerKeyStore) Close() error {
	return b.db.Close()
}
