package domain

import (
	"encoding/json"
	"time"

	"github.com/allisson/journalcrypt/internal/errors"
)

// KeystoreEntry is the persisted layout of a data key.
//
// File, badger and keychain adapters store it as JSON. SQL adapters mirror its
// fields as columns. Key is encoded as base64 by encoding/json.
type KeystoreEntry struct {
	Version    int       `json:"version"`
	Identifier string    `json:"identifier"`
	Algorithm  Algorithm `json:"algorithm"`
	Key        []byte    `json:"key"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewKeystoreEntry builds the persisted form of a data key. The key material
// is copied.
func NewKeystoreEntry(key *DataKey) *KeystoreEntry {
	return &KeystoreEntry{
		Version:    KeystoreEntryVersion,
		Identifier: key.Identifier,
		Algorithm:  key.Algorithm,
		Key:        append([]byte(nil), key.Key...),
		CreatedAt:  key.CreatedAt.UTC(),
	}
}

// DataKey converts the entry back into a DataKey.
//
// The key length is not checked here: a KMS-wrapping store persists wrapped
// material, which is longer than KeySize. Callers validate after unwrapping.
func (e *KeystoreEntry) DataKey() (*DataKey, error) {
	if e.Version != KeystoreEntryVersion {
		return nil, errors.Wrapf(ErrInvalidPackage, "unsupported keystore entry version %d", e.Version)
	}
	if !e.Algorithm.Valid() {
		return nil, ErrUnsupportedAlgorithm
	}
	return &DataKey{
		Identifier: e.Identifier,
		Algorithm:  e.Algorithm,
		Key:        append([]byte(nil), e.Key...),
		CreatedAt:  e.CreatedAt,
	}, nil
}

// MarshalKeystoreEntry encodes a data key in the persisted JSON layout.
func MarshalKeystoreEntry(key *DataKey) ([]byte, error) {
	entry := NewKeystoreEntry(key)
	defer Zero(entry.Key)
	return json.Marshal(entry)
}

// UnmarshalKeystoreEntry decodes the persisted JSON layout into a data key.
func UnmarshalKeystoreEntry(data []byte) (*DataKey, error) {
	var entry KeystoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(ErrInvalidPackage, "malformed keystore entry")
	}
	defer Zero(entry.Key)
	return entry.DataKey()
}
