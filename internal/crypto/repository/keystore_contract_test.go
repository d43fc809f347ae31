package repository

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

func newTestDataKey(identifier string, fill byte) *cryptoDomain.DataKey {
	return &cryptoDomain.DataKey{
		Identifier: identifier,
		Algorithm:  cryptoDomain.AESGCM,
		Key:        bytes.Repeat([]byte{fill}, cryptoDomain.KeySize),
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

// runKeyStoreContract exercises the behavior every keystore adapter shares.
func runKeyStoreContract(t *testing.T, newStore func(t *testing.T) keyStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		store := newStore(t)

		key, err := store.Get(ctx, "missing")
		assert.Nil(t, key)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)

		exists, err := store.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("put then get", func(t *testing.T) {
		store := newStore(t)
		key := newTestDataKey("journal-42", 0x42)

		require.NoError(t, store.Put(ctx, key))

		got, err := store.Get(ctx, "journal-42")
		require.NoError(t, err)
		assert.Equal(t, key.Identifier, got.Identifier)
		assert.Equal(t, key.Algorithm, got.Algorithm)
		assert.Equal(t, key.Key, got.Key)
		assert.WithinDuration(t, key.CreatedAt, got.CreatedAt, time.Second)

		exists, err := store.Exists(ctx, "journal-42")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("put refuses overwrite", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, newTestDataKey("journal-1", 1)))

		err := store.Put(ctx, newTestDataKey("journal-1", 2))
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyAlreadyExists)

		got, err := store.Get(ctx, "journal-1")
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{1}, cryptoDomain.KeySize), got.Key)
	})

	t.Run("returned key is a copy", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, newTestDataKey("journal-2", 7)))

		got, err := store.Get(ctx, "journal-2")
		require.NoError(t, err)
		got.Zero()

		again, err := store.Get(ctx, "journal-2")
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{7}, cryptoDomain.KeySize), again.Key)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, newTestDataKey("journal-3", 3)))

		require.NoError(t, store.Delete(ctx, "journal-3"))
		require.NoError(t, store.Delete(ctx, "journal-3"))
		require.NoError(t, store.Delete(ctx, "never-existed"))

		_, err := store.Get(ctx, "journal-3")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})

	t.Run("identifiers are independent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, newTestDataKey("a", 1)))
		require.NoError(t, store.Put(ctx, newTestDataKey("b", 2)))
		require.NoError(t, store.Delete(ctx, "a"))

		got, err := store.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{2}, cryptoDomain.KeySize), got.Key)
	})
}
