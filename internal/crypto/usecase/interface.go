// Package usecase implements key management and the encryption engine.
//
// KeyUseCase owns data key custody on top of a KeyStore adapter.
// EncryptionUseCase encrypts buffers and files under those keys, seals data
// under passwords and packages data for export. Both fail closed: no
// operation ever returns partial plaintext or writes a partial output file.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// KeyStore is the secure storage capability behind Key Management.
//
// Implementations live in internal/crypto/repository:
//   - MemoryKeyStore: process memory, for tests and ephemeral use
//   - FileKeyStore: one 0600 JSON file per identifier
//   - BadgerKeyStore: embedded badger database
//   - KeychainKeyStore: macOS keychain
//   - PostgreSQLKeyStore / MySQLKeyStore: data_keys table
//   - KMSKeyStore / GatedKeyStore: decorators adding wrapping or an access gate
type KeyStore interface {
	// Get returns the key stored under identifier, or ErrKeyNotFound.
	// A store that refuses access returns ErrAccessDenied.
	Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error)

	// Put stores a new key. It returns ErrKeyAlreadyExists instead of overwriting.
	Put(ctx context.Context, key *cryptoDomain.DataKey) error

	// Delete removes the key. Deleting an absent identifier is not an error.
	Delete(ctx context.Context, identifier string) error

	// Exists reports whether a key is stored under identifier.
	Exists(ctx context.Context, identifier string) (bool, error)
}

// KeyUseCase manages the lifecycle of data keys.
//
// Writes to the same identifier are serialized; different identifiers never
// contend. Every returned *DataKey is a private copy the caller should Zero.
type KeyUseCase interface {
	// GenerateDataKey creates a fresh 256-bit key under identifier.
	// An identifier already in use yields ErrKeyAlreadyExists; re-keying
	// requires DeleteKey first.
	GenerateDataKey(ctx context.Context, identifier string) error

	// GetDataKey returns the key stored under identifier. A missing key or a
	// refused keystore yields ErrKeyRetrievalFailed, with the cause
	// (ErrKeyNotFound, ErrAccessDenied) kept in the chain.
	GetDataKey(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error)

	// GetOrCreateDataKey returns the key under identifier, creating it on first use.
	GetOrCreateDataKey(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error)

	// InstallDataKey stores externally supplied key material, as done on import.
	// Identical material already present is a success; different material
	// yields ErrKeyConflict.
	InstallDataKey(ctx context.Context, key *cryptoDomain.DataKey) error

	// DeleteKey removes the key under identifier. It is idempotent.
	DeleteKey(ctx context.Context, identifier string) error

	// KeyExists reports whether a key is stored under identifier.
	KeyExists(ctx context.Context, identifier string) (bool, error)
}

// EncryptionUseCase encrypts and decrypts data under keys held by KeyUseCase.
type EncryptionUseCase interface {
	// EncryptData seals data with the AEAD of the key under keyID, creating the
	// key on first use. A fresh 12-byte IV is drawn for every call.
	EncryptData(ctx context.Context, data []byte, keyID string) (*cryptoDomain.EncryptedData, error)

	// DecryptData opens encrypted with the key under keyID. Any authentication
	// failure yields ErrDecryptionFailed. The key is never created on this path.
	DecryptData(ctx context.Context, encrypted *cryptoDomain.EncryptedData, keyID string) ([]byte, error)

	// EncryptFile streams src into dst in authenticated chunks and returns the
	// base64 IV the caller must store alongside the file. dst only appears once
	// the whole file has been written.
	EncryptFile(ctx context.Context, src, dst, keyID string) (string, error)

	// DecryptFile reverses EncryptFile. dst only appears if every chunk
	// authenticates.
	DecryptFile(ctx context.Context, src, dst, keyID, iv string) error

	// EncryptWithPassword checks password strength, derives a key from a random
	// salt and seals data with AES-256-GCM. The package carries salt and KDF
	// parameters.
	EncryptWithPassword(
		ctx context.Context,
		data []byte,
		password string,
	) (*cryptoDomain.PasswordEncryptedPackage, error)

	// DecryptWithPassword opens a password package. Attempts are rate limited.
	DecryptWithPassword(
		ctx context.Context,
		pkg *cryptoDomain.PasswordEncryptedPackage,
		password string,
	) ([]byte, error)

	// GenerateEncryptionKey delegates to KeyUseCase.GenerateDataKey.
	GenerateEncryptionKey(ctx context.Context, keyID string) error

	// ExportEncryptedData bundles encrypted with its data key wrapped under password.
	ExportEncryptedData(
		ctx context.Context,
		encrypted *cryptoDomain.EncryptedData,
		keyID string,
		password string,
	) (*cryptoDomain.ExportPackage, error)

	// ImportEncryptedData unwraps the key in pkg, installs it and returns the
	// payload together with its key identifier.
	ImportEncryptedData(
		ctx context.Context,
		pkg *cryptoDomain.ExportPackage,
		password string,
	) (*cryptoDomain.EncryptedData, string, error)

	// VerifyFileIntegrity compares the SHA-256 of the file at path with a hex
	// checksum. A mismatch is (false, nil), not an error.
	VerifyFileIntegrity(ctx context.Context, path, expectedChecksum string) (bool, error)

	// ComputeFileChecksum returns the lowercase hex SHA-256 of the file at path.
	ComputeFileChecksum(ctx context.Context, path string) (string, error)
}
