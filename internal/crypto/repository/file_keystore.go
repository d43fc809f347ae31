package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	apperrors "github.com/allisson/journalcrypt/internal/errors"
)

// FileKeyStore keeps one JSON KeystoreEntry per identifier in a directory.
//
// File names are the hex SHA-256 of the identifier, so identifiers never
// touch the file system as paths. Entries are written 0600 through a temp
// file and rename; the directory is created 0700.
type FileKeyStore struct {
	dir string
}

// NewFileKeyStore creates the directory if needed and returns a FileKeyStore.
func NewFileKeyStore(dir string) (*FileKeyStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	return &FileKeyStore{dir: dir}, nil
}

func (f *FileKeyStore) path(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".json")
}

// Get reads and decodes the entry stored under identifier.
func (f *FileKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cryptoDomain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	defer cryptoDomain.Zero(data)

	key, err := cryptoDomain.UnmarshalKeystoreEntry(data)
	if err != nil {
		return nil, err
	}
	if key.Identifier != identifier {
		key.Zero()
		return nil, apperrors.Wrap(cryptoDomain.ErrInvalidPackage, "keystore entry identifier mismatch")
	}
	return key, nil
}

// Put writes a new entry. Callers serialize writes to the same identifier.
func (f *FileKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := f.path(key.Identifier)
	if _, err := os.Stat(target); err == nil {
		return cryptoDomain.ErrKeyAlreadyExists
	} else if !os.IsNotExist(err) {
		return apperrors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}

	data, err := cryptoDomain.MarshalKeystoreEntry(key)
	if err != nil {
		return fmt.Errorf("failed to encode keystore entry: %w", err)
	}
	defer cryptoDomain.Zero(data)

	if err := writeFileAtomic(target, data); err != nil {
		return apperrors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	return nil
}

// Delete removes the entry stored under identifier.
func (f *FileKeyStore) Delete(ctx context.Context, identifier string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(f.path(identifier)); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	return nil
}

// Exists reports whether an entry is stored under identifier.
func (f *FileKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(f.path(identifier))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, apperrors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
}

func writeFileAtomic(target string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".keystore-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
