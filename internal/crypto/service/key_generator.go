package service

import (
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// KeyGeneratorService implements KeyGenerator on top of an entropy source.
type KeyGeneratorService struct {
	reader io.Reader
}

// NewKeyGenerator creates a KeyGeneratorService reading from crypto/rand.
func NewKeyGenerator() *KeyGeneratorService {
	return &KeyGeneratorService{reader: rand.Reader}
}

// NewKeyGeneratorWithReader creates a KeyGeneratorService reading from r.
// Only tests should pass anything other than crypto/rand.Reader.
func NewKeyGeneratorWithReader(r io.Reader) *KeyGeneratorService {
	return &KeyGeneratorService{reader: r}
}

// GenerateKey returns a fresh 32-byte key.
func (g *KeyGeneratorService) GenerateKey() ([]byte, error) {
	return g.RandomBytes(cryptoDomain.KeySize)
}

// RandomBytes returns n random bytes.
func (g *KeyGeneratorService) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(g.reader, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
