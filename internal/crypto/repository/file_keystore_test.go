package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

func TestFileKeyStore(t *testing.T) {
	runKeyStoreContract(t, func(t *testing.T) keyStore {
		store, err := NewFileKeyStore(filepath.Join(t.TempDir(), "keys"))
		require.NoError(t, err)
		return store
	})
}

func TestFileKeyStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "keys")
	store, err := NewFileKeyStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, newTestDataKey("../../etc/passwd", 1)))

	sum := sha256.Sum256([]byte("../../etc/passwd"))
	path := filepath.Join(dir, hex.EncodeToString(sum[:])+".json")
	info, err := os.Stat(path)
	require.NoError(t, err)

	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		dirInfo, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`)
}

func TestFileKeyStore_RejectsMovedEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileKeyStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, newTestDataKey("journal-a", 1)))

	// An entry copied under another identifier's file name must not be served.
	src := store.path("journal-a")
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path("journal-b"), data, 0o600))

	_, err = store.Get(ctx, "journal-b")
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPackage)
}

func TestFileKeyStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileKeyStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path("journal-1"), []byte("{garbage"), 0o600))

	_, err = store.Get(ctx, "journal-1")
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPackage)
}
