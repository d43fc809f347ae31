// Package service provides the cryptographic primitives behind the use cases:
// AEAD ciphers, key generation, password key derivation, password strength
// checks and KMS keepers.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// Ciphertexts returned by Encrypt and SealWithNonce carry the authentication
// tag appended, as produced by crypto/cipher.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD under a fresh random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// SealWithNonce encrypts under a caller-supplied nonce. Callers own nonce
	// uniqueness; it is used for chunked files where nonces are derived.
	SealWithNonce(nonce, plaintext, aad []byte) ([]byte, error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int

	// Overhead returns the tag length in bytes.
	Overhead() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyGenerator produces key material and other random values.
type KeyGenerator interface {
	// GenerateKey returns cryptoDomain.KeySize random bytes.
	GenerateKey() ([]byte, error)

	// RandomBytes returns n random bytes, for salts and IVs.
	RandomBytes(n int) ([]byte, error)
}

// KeyDeriver derives symmetric keys from passwords.
type KeyDeriver interface {
	// DeriveKey runs the KDF described by params. Params outside the accepted
	// floors and ceilings are refused with ErrInvalidKDFParams.
	DeriveKey(password, salt []byte, params cryptoDomain.KDFParams) ([]byte, error)
}

// PasswordValidator checks password strength before any derivation happens.
type PasswordValidator interface {
	// Validate returns ErrPasswordTooWeak when the password fails the rules.
	Validate(password string) error
}

// KMSKeeper wraps and unwraps small secrets with an external key.
// *secrets.Keeper satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
