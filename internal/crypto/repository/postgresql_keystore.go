package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	apperrors "github.com/allisson/journalcrypt/internal/errors"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// PostgreSQLKeyStore keeps data keys in the data_keys table of a PostgreSQL database.
type PostgreSQLKeyStore struct {
	db *sql.DB
}

// NewPostgreSQLKeyStore creates a new PostgreSQL keystore.
func NewPostgreSQLKeyStore(db *sql.DB) *PostgreSQLKeyStore {
	return &PostgreSQLKeyStore{db: db}
}

// Get retrieves the key stored under identifier.
func (p *PostgreSQLKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	query := `SELECT identifier, version, algorithm, key_material, created_at
			  FROM data_keys
			  WHERE identifier = $1`

	var entry cryptoDomain.KeystoreEntry
	err := p.db.QueryRowContext(ctx, query, identifier).Scan(
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

// Put inserts a new row. The primary key on identifier makes the insert the
// existence check, so concurrent writers from other processes are safe.
func (p *PostgreSQLKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	query := `INSERT INTO data_keys (identifier, version, algorithm, key_material, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	entry := cryptoDomain.NewKeystoreEntry(key)
	defer cryptoDomain.Zero(entry.Key)

	_, err := p.db.ExecContext(
		ctx,
		query,
		entry.Identifier,
		entry.Version,
		entry.Algorithm,
		entry.Key,
		entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return cryptoDomain.ErrKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create data key")
	}
	return nil
}

// Delete removes the row for identifier.
func (p *PostgreSQLKeyStore) Delete(ctx context.Context, identifier string) error {
	query := `DELETE FROM data_keys WHERE identifier = $1`

	if _, err := p.db.ExecContext(ctx, query, identifier); err != nil {
		return apperrors.Wrap(err, "failed to delete data key")
	}
	return nil
}

// Exists reports whether a row exists for identifier.
func (p *PostgreSQLKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM data_keys WHERE identifier = $1)`

	var exists bool
	if err := p.db.QueryRowContext(ctx, query, identifier).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check data key")
	}
	return exists, nil
}
