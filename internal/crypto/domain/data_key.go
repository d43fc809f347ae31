package domain

import (
	"fmt"
	"log/slog"
	"time"
)

// DataKey is a symmetric data encryption key addressed by a caller-chosen identifier.
//
// The Key field holds plaintext key material. It is never persisted by this
// type, never logged, and should be zeroed with Zero once the caller is done.
// String and LogValue redact it.
type DataKey struct {
	Identifier string    // Caller-chosen logical name, e.g. a journal ID
	Algorithm  Algorithm // AEAD the key is used with
	Key        []byte    // 32 bytes of key material
	CreatedAt  time.Time
}

// Zero overwrites the key material.
func (k *DataKey) Zero() {
	if k == nil {
		return
	}
	Zero(k.Key)
}

// String implements fmt.Stringer without exposing key material.
func (k DataKey) String() string {
	return fmt.Sprintf("DataKey{identifier=%q algorithm=%s key=[REDACTED]}", k.Identifier, k.Algorithm)
}

// LogValue implements slog.LogValuer without exposing key material.
func (k DataKey) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("algorithm", string(k.Algorithm)),
		slog.String("key", "[REDACTED]"),
	)
}

// Validate checks the key size and algorithm.
func (k *DataKey) Validate() error {
	if len(k.Key) != KeySize {
		return ErrInvalidKeySize
	}
	if !k.Algorithm.Valid() {
		return ErrUnsupportedAlgorithm
	}
	return nil
}
