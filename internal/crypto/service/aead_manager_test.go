package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	validKey := make([]byte, 32)
	_, err := rand.Read(validKey)
	require.NoError(t, err)

	t.Run("create AES-GCM cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(validKey, cryptoDomain.AESGCM)
		require.NoError(t, err)
		_, ok := cipher.(*AESGCMCipher)
		assert.True(t, ok, "cipher should be of type *AESGCMCipher")
	})

	t.Run("create ChaCha20-Poly1305 cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(validKey, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		_, ok := cipher.(*ChaCha20Poly1305Cipher)
		assert.True(t, ok, "cipher should be of type *ChaCha20Poly1305Cipher")
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(validKey, cryptoDomain.Algorithm("unsupported"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := manager.CreateCipher(make([]byte, size), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize, "key size %d", size)
	}

	_, err = manager.CreateCipher(nil, cryptoDomain.ChaCha20)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
}

// wideNonceAEAD reports an XChaCha-sized nonce.
type wideNonceAEAD struct {
	*AESGCMCipher
}

func (wideNonceAEAD) NonceSize() int { return 24 }

func TestAEADManagerService_CreateCipherWireShape(t *testing.T) {
	manager := NewAEADManager()
	manager.factories["xchacha20-poly1305"] = func(key []byte) (AEAD, error) {
		inner, err := NewAESGCM(key)
		if err != nil {
			return nil, err
		}
		return wideNonceAEAD{inner}, nil
	}

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		cipher, err := manager.CreateCipher(make([]byte, cryptoDomain.KeySize), alg)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.NonceSize, cipher.NonceSize(), "%s nonce", alg)
		assert.Equal(t, cryptoDomain.TagSize, cipher.Overhead(), "%s tag", alg)
	}

	cipher, err := manager.CreateCipher(make([]byte, cryptoDomain.KeySize), "xchacha20-poly1305")
	assert.Nil(t, cipher)
	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	assert.Contains(t, err.Error(), "24-byte nonce")
}
