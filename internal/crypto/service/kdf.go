package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// KeyDeriverService implements KeyDeriver with PBKDF2-HMAC-SHA256 and argon2id.
type KeyDeriverService struct{}

// NewKeyDeriver creates a new KeyDeriverService.
func NewKeyDeriver() *KeyDeriverService {
	return &KeyDeriverService{}
}

// DeriveKey derives a key of params.KeyLength bytes. Parameters are checked
// against the floors first, so untrusted packages cannot request a cheap KDF.
func (d *KeyDeriverService) DeriveKey(
	password, salt []byte,
	params cryptoDomain.KDFParams,
) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < cryptoDomain.MinSaltSize || len(salt) > cryptoDomain.MaxSaltSize {
		return nil, cryptoDomain.ErrInvalidKDFParams
	}

	switch params.Algorithm {
	case cryptoDomain.PBKDF2SHA256:
		return pbkdf2.Key(password, salt, int(params.Iterations), int(params.KeyLength), sha256.New), nil
	case cryptoDomain.Argon2id:
		return argon2.IDKey(password, salt, params.Iterations, params.Memory, params.Threads, params.KeyLength), nil
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
