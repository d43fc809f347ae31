package domain

import (
	"github.com/allisson/journalcrypt/internal/errors"
)

// Cryptographic operation errors.
//
// Each sentinel wraps one of the generic categories from internal/errors, so
// callers can match either the precise failure or its broad class.
var (
	// ErrKeyRetrievalFailed indicates a data key could not be obtained from the
	// keystore. The underlying cause (ErrKeyNotFound, ErrAccessDenied or a
	// device error) stays in the chain.
	ErrKeyRetrievalFailed = errors.Wrap(errors.ErrNotFound, "key retrieval failed")

	// ErrKeyNotFound indicates the keystore holds no entry for the identifier.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrAccessDenied indicates the keystore refused access, for instance
	// because a biometric or user-presence gate was not satisfied.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "keystore access denied")

	// ErrKeyAlreadyExists indicates GenerateDataKey was called for an identifier
	// that already holds a key. Callers that want to re-key must delete first.
	ErrKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "key already exists")

	// ErrKeyConflict indicates an import carried key material that differs from
	// the key already installed under the same identifier.
	ErrKeyConflict = errors.Wrap(errors.ErrConflict, "key material conflict")

	// ErrEncryptionFailed indicates an underlying primitive failed while encrypting.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInternal, "encryption failed")

	// ErrDecryptionFailed indicates decryption failed.
	//
	// Tag mismatch, corrupted ciphertext, a wrong key and a wrong password all
	// produce this same error so the result cannot be used as an oracle.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrPasswordTooWeak indicates the password failed the strength rules.
	// It is returned before any key derivation work is done.
	ErrPasswordTooWeak = errors.Wrap(errors.ErrInvalidInput, "password too weak")

	// ErrFileSystem indicates an I/O failure while reading or writing files.
	ErrFileSystem = errors.Wrap(errors.ErrInternal, "file system error")

	// ErrInvalidChecksum indicates an expected checksum is not a SHA-256 hex digest.
	ErrInvalidChecksum = errors.Wrap(errors.ErrInvalidInput, "invalid checksum")

	// ErrInvalidIdentifier indicates a key identifier failed validation.
	ErrInvalidIdentifier = errors.Wrap(errors.ErrInvalidInput, "invalid key identifier")

	// ErrInvalidKeySize indicates key material is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates an unknown AEAD or KDF algorithm.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKDFParams indicates KDF parameters outside the accepted bounds or malformed.
	ErrInvalidKDFParams = errors.Wrap(errors.ErrInvalidInput, "invalid kdf parameters")

	// ErrInvalidPackage indicates a serialized EncryptedData, password package or
	// export package could not be parsed.
	ErrInvalidPackage = errors.Wrap(errors.ErrInvalidInput, "invalid package")

	// ErrKeystoreUnsupported indicates the configured keystore is not available
	// on this platform.
	ErrKeystoreUnsupported = errors.Wrap(errors.ErrInternal, "keystore not supported on this platform")
)

// errorKinds is ordered from most to least specific. The first match wins.
var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrKeyAlreadyExists, "KeyAlreadyExists"},
	{ErrKeyConflict, "KeyConflict"},
	{ErrKeyRetrievalFailed, "KeyRetrievalFailed"},
	{ErrKeyNotFound, "KeyRetrievalFailed"},
	{ErrAccessDenied, "KeyRetrievalFailed"},
	{ErrPasswordTooWeak, "PasswordTooWeak"},
	{ErrDecryptionFailed, "DecryptionFailed"},
	{ErrEncryptionFailed, "EncryptionFailed"},
	{ErrFileSystem, "FileSystemError"},
	{ErrInvalidChecksum, "InvalidChecksum"},
	{ErrInvalidIdentifier, "InvalidIdentifier"},
	{ErrInvalidKeySize, "InvalidKeySize"},
	{ErrUnsupportedAlgorithm, "UnsupportedAlgorithm"},
	{ErrInvalidKDFParams, "InvalidKDFParams"},
	{ErrInvalidPackage, "InvalidPackage"},
	{ErrKeystoreUnsupported, "KeystoreUnsupported"},
}

// ErrorKind maps an error to a stable kind name suitable for logs and metric
// labels. It never includes the error message, which may carry paths or
// identifiers. Returns "" for a nil error and "Unknown" for foreign errors.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Unknown"
}
