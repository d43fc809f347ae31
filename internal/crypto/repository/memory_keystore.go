// Package repository implements keystore adapters for data keys.
//
// Every adapter stores at most one key per identifier. Put refuses to
// overwrite an existing identifier with ErrKeyAlreadyExists, Get of an absent
// identifier returns ErrKeyNotFound and Delete of an absent identifier is a
// no-op.
package repository

import (
	"context"
	"sync"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// MemoryKeyStore keeps data keys in process memory. Keys are copied on the
// way in and out so callers can zero their copies freely.
type MemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[string]cryptoDomain.DataKey
}

// NewMemoryKeyStore creates an empty MemoryKeyStore.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]cryptoDomain.DataKey)}
}

// Get returns a copy of the key stored under identifier.
func (m *MemoryKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.keys[identifier]
	if !ok {
		return nil, cryptoDomain.ErrKeyNotFound
	}
	key.Key = append([]byte(nil), key.Key...)
	return &key, nil
}

// Put stores a copy of key.
func (m *MemoryKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.keys[key.Identifier]; ok {
		return cryptoDomain.ErrKeyAlreadyExists
	}
	stored := *key
	stored.Key = append([]byte(nil), key.Key...)
	m.keys[key.Identifier] = stored
	return nil
}

// Delete zeroes and removes the key stored under identifier.
func (m *MemoryKeyStore) Delete(ctx context.Context, identifier string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if key, ok := m.keys[identifier]; ok {
		cryptoDomain.Zero(key.Key)
		delete(m.keys, identifier)
	}
	return nil
}

// Exists reports whether a key is stored under identifier.
func (m *MemoryKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.keys[identifier]
	return ok, nil
}
