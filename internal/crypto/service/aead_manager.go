package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

type cipherFactory func(key []byte) (AEAD, error)

// AEADManagerService builds the AEAD for a data key's algorithm.
type AEADManagerService struct {
	factories map[cryptoDomain.Algorithm]cipherFactory
}

// NewAEADManager creates an AEADManagerService for AES-256-GCM and
// ChaCha20-Poly1305.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{
		factories: map[cryptoDomain.Algorithm]cipherFactory{
			cryptoDomain.AESGCM:   func(key []byte) (AEAD, error) { return NewAESGCM(key) },
			cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) { return NewChaCha20Poly1305(key) },
		},
	}
}

// CreateCipher returns the AEAD for alg keyed with key. The key must be
// cryptoDomain.KeySize bytes. The cipher must produce the EncryptedData wire
// shape: a NonceSize IV and a TagSize tag.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	factory, ok := am.factories[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	aead, err := factory(key)
	if err != nil {
		return nil, err
	}
	if aead.NonceSize() != cryptoDomain.NonceSize || aead.Overhead() != cryptoDomain.TagSize {
		return nil, fmt.Errorf(
			"%w: %s uses a %d-byte nonce and a %d-byte tag",
			cryptoDomain.ErrUnsupportedAlgorithm, alg, aead.NonceSize(), aead.Overhead(),
		)
	}
	return aead, nil
}
