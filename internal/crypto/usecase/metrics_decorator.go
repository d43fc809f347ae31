package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	"github.com/allisson/journalcrypt/internal/metrics"
)

const metricsDomain = "crypto"

func recordMetrics(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	outcome := metrics.Succeeded()
	if err != nil {
		outcome = metrics.Failed(cryptoDomain.ErrorKind(err))
	}

	m.RecordOperation(ctx, metricsDomain, operation, outcome)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), outcome)
}

// keyUseCaseWithMetrics decorates KeyUseCase with metrics instrumentation.
type keyUseCaseWithMetrics struct {
	next    KeyUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyUseCaseWithMetrics wraps a KeyUseCase with metrics recording.
func NewKeyUseCaseWithMetrics(useCase KeyUseCase, m metrics.BusinessMetrics) KeyUseCase {
	return &keyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// GenerateDataKey records metrics for key generation.
func (k *keyUseCaseWithMetrics) GenerateDataKey(ctx context.Context, identifier string) error {
	start := time.Now()
	err := k.next.GenerateDataKey(ctx, identifier)
	recordMetrics(ctx, k.metrics, "key_generate", start, err)
	return err
}

// GetDataKey records metrics for key retrieval.
func (k *keyUseCaseWithMetrics) GetDataKey(
	ctx context.Context,
	identifier string,
) (*cryptoDomain.DataKey, error) {
	start := time.Now()
	key, err := k.next.GetDataKey(ctx, identifier)
	recordMetrics(ctx, k.metrics, "key_get", start, err)
	return key, err
}

// GetOrCreateDataKey records metrics for key retrieval with creation on first use.
func (k *keyUseCaseWithMetrics) GetOrCreateDataKey(
	ctx context.Context,
	identifier string,
) (*cryptoDomain.DataKey, error) {
	start := time.Now()
	key, err := k.next.GetOrCreateDataKey(ctx, identifier)
	recordMetrics(ctx, k.metrics, "key_get_or_create", start, err)
	return key, err
}

// InstallDataKey records metrics for key installation.
func (k *keyUseCaseWithMetrics) InstallDataKey(ctx context.Context, key *cryptoDomain.DataKey) error {
	start := time.Now()
	err := k.next.InstallDataKey(ctx, key)
	recordMetrics(ctx, k.metrics, "key_install", start, err)
	return err
}

// DeleteKey records metrics for key deletion.
func (k *keyUseCaseWithMetrics) DeleteKey(ctx context.Context, identifier string) error {
	start := time.Now()
	err := k.next.DeleteKey(ctx, identifier)
	recordMetrics(ctx, k.metrics, "key_delete", start, err)
	return err
}

// KeyExists records metrics for existence checks.
func (k *keyUseCaseWithMetrics) KeyExists(ctx context.Context, identifier string) (bool, error) {
	start := time.Now()
	exists, err := k.next.KeyExists(ctx, identifier)
	recordMetrics(ctx, k.metrics, "key_exists", start, err)
	return exists, err
}

// encryptionUseCaseWithMetrics decorates EncryptionUseCase with metrics instrumentation.
type encryptionUseCaseWithMetrics struct {
	next    EncryptionUseCase
	metrics metrics.BusinessMetrics
}

// NewEncryptionUseCaseWithMetrics wraps an EncryptionUseCase with metrics recording.
func NewEncryptionUseCaseWithMetrics(useCase EncryptionUseCase, m metrics.BusinessMetrics) EncryptionUseCase {
	return &encryptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// EncryptData records metrics for data encryption.
func (e *encryptionUseCaseWithMetrics) EncryptData(
	ctx context.Context,
	data []byte,
	keyID string,
) (*cryptoDomain.EncryptedData, error) {
	start := time.Now()
	encrypted, err := e.next.EncryptData(ctx, data, keyID)
	recordMetrics(ctx, e.metrics, "encrypt_data", start, err)
	return encrypted, err
}

// DecryptData records metrics for data decryption.
func (e *encryptionUseCaseWithMetrics) DecryptData(
	ctx context.Context,
	encrypted *cryptoDomain.EncryptedData,
	keyID string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.DecryptData(ctx, encrypted, keyID)
	recordMetrics(ctx, e.metrics, "decrypt_data", start, err)
	return plaintext, err
}

// EncryptFile records metrics for file encryption.
func (e *encryptionUseCaseWithMetrics) EncryptFile(ctx context.Context, src, dst, keyID string) (string, error) {
	start := time.Now()
	iv, err := e.next.EncryptFile(ctx, src, dst, keyID)
	recordMetrics(ctx, e.metrics, "encrypt_file", start, err)
	return iv, err
}

// DecryptFile records metrics for file decryption.
func (e *encryptionUseCaseWithMetrics) DecryptFile(ctx context.Context, src, dst, keyID, iv string) error {
	start := time.Now()
	err := e.next.DecryptFile(ctx, src, dst, keyID, iv)
	recordMetrics(ctx, e.metrics, "decrypt_file", start, err)
	return err
}

// EncryptWithPassword records metrics for password encryption.
func (e *encryptionUseCaseWithMetrics) EncryptWithPassword(
	ctx context.Context,
	data []byte,
	password string,
) (*cryptoDomain.PasswordEncryptedPackage, error) {
	start := time.Now()
	pkg, err := e.next.EncryptWithPassword(ctx, data, password)
	recordMetrics(ctx, e.metrics, "encrypt_with_password", start, err)
	return pkg, err
}

// DecryptWithPassword records metrics for password decryption.
func (e *encryptionUseCaseWithMetrics) DecryptWithPassword(
	ctx context.Context,
	pkg *cryptoDomain.PasswordEncryptedPackage,
	password string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.DecryptWithPassword(ctx, pkg, password)
	recordMetrics(ctx, e.metrics, "decrypt_with_password", start, err)
	return plaintext, err
}

// GenerateEncryptionKey records metrics for key generation through the engine.
func (e *encryptionUseCaseWithMetrics) GenerateEncryptionKey(ctx context.Context, keyID string) error {
	start := time.Now()
	err := e.next.GenerateEncryptionKey(ctx, keyID)
	recordMetrics(ctx, e.metrics, "generate_encryption_key", start, err)
	return err
}

// ExportEncryptedData records metrics for exports.
func (e *encryptionUseCaseWithMetrics) ExportEncryptedData(
	ctx context.Context,
	encrypted *cryptoDomain.EncryptedData,
	keyID string,
	password string,
) (*cryptoDomain.ExportPackage, error) {
	start := time.Now()
	pkg, err := e.next.ExportEncryptedData(ctx, encrypted, keyID, password)
	recordMetrics(ctx, e.metrics, "export_encrypted_data", start, err)
	return pkg, err
}

// ImportEncryptedData records metrics for imports.
func (e *encryptionUseCaseWithMetrics) ImportEncryptedData(
	ctx context.Context,
	pkg *cryptoDomain.ExportPackage,
	password string,
) (*cryptoDomain.EncryptedData, string, error) {
	start := time.Now()
	encrypted, keyID, err := e.next.ImportEncryptedData(ctx, pkg, password)
	recordMetrics(ctx, e.metrics, "import_encrypted_data", start, err)
	return encrypted, keyID, err
}

// VerifyFileIntegrity records metrics for integrity checks.
func (e *encryptionUseCaseWithMetrics) VerifyFileIntegrity(
	ctx context.Context,
	path, expectedChecksum string,
) (bool, error) {
	start := time.Now()
	ok, err := e.next.VerifyFileIntegrity(ctx, path, expectedChecksum)
	recordMetrics(ctx, e.metrics, "verify_file_integrity", start, err)
	return ok, err
}

// ComputeFileChecksum records metrics for checksum computation.
func (e *encryptionUseCaseWithMetrics) ComputeFileChecksum(ctx context.Context, path string) (string, error) {
	start := time.Now()
	sum, err := e.next.ComputeFileChecksum(ctx, path)
	recordMetrics(ctx, e.metrics, "compute_file_checksum", start, err)
	return sum, err
}
