package repository

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// AccessGate authorizes reads of key material, for instance by requiring a
// biometric or user-presence check on the device.
type AccessGate interface {
	Authorize(ctx context.Context, identifier string) error
}

// AccessGateFunc adapts a function to AccessGate.
type AccessGateFunc func(ctx context.Context, identifier string) error

// Authorize calls f.
func (f AccessGateFunc) Authorize(ctx context.Context, identifier string) error {
	return f(ctx, identifier)
}

// GatedKeyStore runs an AccessGate before every Get. A refusal surfaces as
// ErrAccessDenied with the gate's error kept in the chain.
type GatedKeyStore struct {
	next keyStore
	gate AccessGate
}

// NewGatedKeyStore decorates next with gate.
func NewGatedKeyStore(next keyStore, gate AccessGate) *GatedKeyStore {
	return &GatedKeyStore{next: next, gate: gate}
}

// Get authorizes, then delegates.
func (g *GatedKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	if err := g.gate.Authorize(ctx, identifier); err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrAccessDenied, err)
	}
	return g.next.Get(ctx, identifier)
}

// Put delegates to the underlying store.
func (g *GatedKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	return g.next.Put(ctx, key)
}

// Delete delegates to the underlying store.
func (g *GatedKeyStore) Delete(ctx context.Context, identifier string) error {
	return g.next.Delete(ctx, identifier)
}

// Exists delegates to the underlying store.
func (g *GatedKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	return g.next.Exists(ctx, identifier)
}
