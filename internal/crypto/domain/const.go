package domain

// Algorithm represents the AEAD algorithm a data key is used with.
//
// Both algorithms take 256-bit keys, 96-bit nonces and produce 128-bit
// authentication tags, so EncryptedData layouts are identical between them.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. It is the default for new data keys.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305, preferred on devices without
	// AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Valid reports whether the algorithm is supported.
func (a Algorithm) Valid() bool {
	return a == AESGCM || a == ChaCha20
}

// ParseAlgorithm converts a configuration or flag value into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	alg := Algorithm(s)
	if !alg.Valid() {
		return "", ErrUnsupportedAlgorithm
	}
	return alg, nil
}

// KDFAlgorithm identifies the password key derivation function.
type KDFAlgorithm string

const (
	// PBKDF2SHA256 is PBKDF2 with HMAC-SHA256.
	PBKDF2SHA256 KDFAlgorithm = "pbkdf2-sha256"

	// Argon2id is the memory-hard argon2id function.
	Argon2id KDFAlgorithm = "argon2id"
)

// Cryptographic sizes, in bytes.
const (
	KeySize   = 32
	NonceSize = 12
	TagSize   = 16

	// MinSaltSize is the shortest salt accepted when deriving a key from a password.
	MinSaltSize = 16
	// MaxSaltSize bounds salts read from untrusted packages.
	MaxSaltSize = 64
	// DefaultSaltSize is used for new password packages.
	DefaultSaltSize = 32
)

// KDF floors. Packages asking for cheaper parameters are refused so an
// attacker cannot downgrade the work factor of an export file.
const (
	MinPBKDF2Iterations = 100_000
	MinArgon2Time       = 1
	MinArgon2MemoryKiB  = 19 * 1024

	// KDF ceilings. Parameters come from untrusted packages, so the work and
	// memory a package may demand are bounded too.
	MaxPBKDF2Iterations = 10_000_000
	MaxArgon2Time       = 16
	MaxArgon2MemoryKiB  = 1024 * 1024
	MaxArgon2Threads    = 16

	// DefaultPBKDF2Iterations follows the current OWASP recommendation for PBKDF2-HMAC-SHA256.
	DefaultPBKDF2Iterations = 600_000
)

// Layout versions of persisted structures.
const (
	KeystoreEntryVersion = 1
	EncryptedDataVersion = 1
	ExportPackageVersion = 1
	FileFormatVersion    = 1
)

// DefaultFileChunkSize is the plaintext size of each chunk in an encrypted file.
const DefaultFileChunkSize = 64 * 1024
