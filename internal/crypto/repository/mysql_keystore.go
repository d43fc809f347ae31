package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	apperrors "github.com/allisson/journalcrypt/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLKeyStore keeps data keys in the data_keys table of a MySQL database.
// Key material is stored as VARBINARY.
type MySQLKeyStore struct {
	db *sql.DB
}

// NewMySQLKeyStore creates a new MySQL keystore.
func NewMySQLKeyStore(db *sql.DB) *MySQLKeyStore {
	return &MySQLKeyStore{db: db}
}

// Get retrieves the key stored under identifier.
func (m *MySQLKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	query := `SELECT identifier, version, algorithm, key_material, created_at
			  FROM data_keys
			  WHERE identifier = ?`

	var entry cryptoDomain.KeystoreEntry
	err := m.db.QueryRowContext(ctx, query, identifier).Scan(
		&entry.Identifier,
		&entry.Version,
		&entry.Algorithm,
		&entry.Key,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cryptoDomain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get data key")
	}
	defer cryptoDomain.Zero(entry.Key)

	return entry.DataKey()
}

// Put inserts a new row; a duplicate identifier maps to ErrKeyAlreadyExists.
func (m *MySQLKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	query := `INSERT INTO data_keys (identifier, version, algorithm, key_material, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	entry := cryptoDomain.NewKeystoreEntry(key)
	defer cryptoDomain.Zero(entry.Key)

	_, err := m.db.ExecContext(
		ctx,
		query,
		entry.Identifier,
		entry.Version,
		entry.Algorithm,
		entry.Key,
		entry.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return cryptoDomain.ErrKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create data key")
	}
	return nil
}

// Delete removes the row for identifier.
func (m *MySQLKeyStore) Delete(ctx context.Context, identifier string) error {
	query := `DELETE FROM data_keys WHERE identifier = ?`

	if _, err := m.db.ExecContext(ctx, query, identifier); err != nil {
		return apperrors.Wrap(err, "failed to delete data key")
	}
	return nil
}

// Exists reports whether a row exists for identifier.
func (m *MySQLKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM data_keys WHERE identifier = ?)`

	var exists bool
	if err := m.db.QueryRowContext(ctx, query, identifier).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check data key")
	}
	return exists, nil
}
