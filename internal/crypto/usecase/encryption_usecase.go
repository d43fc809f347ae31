package usecase

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"golang.org/x/time/rate"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/journalcrypt/internal/crypto/service"
	"github.com/allisson/journalcrypt/internal/errors"
	customValidation "github.com/allisson/journalcrypt/internal/validation"
)

// EncryptionConfig holds the tunables of the encryption engine.
type EncryptionConfig struct {
	KDF           cryptoDomain.KDFParams // parameters for new password packages
	SaltSize      int
	FileChunkSize int
}

type encryptionUseCase struct {
	keys        KeyUseCase
	aeadManager cryptoService.AEADManager
	keyGen      cryptoService.KeyGenerator
	deriver     cryptoService.KeyDeriver
	passwords   cryptoService.PasswordValidator
	limiter     *rate.Limiter
	cfg         EncryptionConfig
	logger      *slog.Logger
	now         func() time.Time
}

func (e *encryptionUseCase) logFailure(operation string, err error) {
	e.logger.Warn("encryption operation failed",
		slog.String("operation", operation),
		slog.String("error_kind", cryptoDomain.ErrorKind(err)),
	)
}

// EncryptData seals data under the key for keyID.
func (e *encryptionUseCase) EncryptData(
	ctx context.Context,
	data []byte,
	keyID string,
) (encrypted *cryptoDomain.EncryptedData, err error) {
	defer func() {
		if err != nil {
			e.logFailure("encrypt_data", err)
		}
	}()

	key, err := e.keys.GetOrCreateDataKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	cipher, err := e.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	ciphertext, nonce, err := cipher.Encrypt(data, nil)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	return cryptoDomain.NewEncryptedData(nonce, ciphertext)
}

// DecryptData opens encrypted under the key for keyID.
func (e *encryptionUseCase) DecryptData(
	ctx context.Context,
	encrypted *cryptoDomain.EncryptedData,
	keyID string,
) (plaintext []byte, err error) {
	defer func() {
		if err != nil {
			e.logFailure("decrypt_data", err)
		}
	}()

	key, err := e.keys.GetDataKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	return e.open(key, encrypted)
}

func (e *encryptionUseCase) open(
	key *cryptoDomain.DataKey,
	encrypted *cryptoDomain.EncryptedData,
) ([]byte, error) {
	if err := encrypted.Validate(); err != nil {
		return nil, err
	}

	cipher, err := e.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := cipher.Decrypt(encrypted.Sealed(), encrypted.IV, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptFile encrypts src into dst in chunks and returns the base64 IV.
func (e *encryptionUseCase) EncryptFile(
	ctx context.Context,
	src, dst, keyID string,
) (iv string, err error) {
	defer func() {
		if err != nil {
			e.logFailure("encrypt_file", err)
		}
	}()

	key, err := e.keys.GetOrCreateDataKey(ctx, keyID)
	if err != nil {
		return "", err
	}
	defer key.Zero()

	cipher, err := e.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return "", errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	nonce, err := e.keyGen.RandomBytes(cipher.NonceSize())
	if err != nil {
		return "", errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	err = transformFile(src, dst, func(r io.Reader, w io.Writer) error {
		return sealStream(ctx, r, w, cipher, nonce, e.cfg.FileChunkSize)
	})
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(nonce), nil
}

// DecryptFile decrypts src into dst using the IV returned by EncryptFile.
func (e *encryptionUseCase) DecryptFile(
	ctx context.Context,
	src, dst, keyID, iv string,
) (err error) {
	defer func() {
		if err != nil {
			e.logFailure("decrypt_file", err)
		}
	}()

	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil || len(nonce) != cryptoDomain.NonceSize {
		return cryptoDomain.ErrDecryptionFailed
	}

	key, err := e.keys.GetDataKey(ctx, keyID)
	if err != nil {
		return err
	}
	defer key.Zero()

	cipher, err := e.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}

	return transformFile(src, dst, func(r io.Reader, w io.Writer) error {
		return openStream(ctx, r, w, cipher, nonce, e.cfg.FileChunkSize)
	})
}

// sealWithPassword derives a key from password and a fresh salt and seals
// data with AES-256-GCM under aad.
func (e *encryptionUseCase) sealWithPassword(
	data []byte,
	password string,
	aad []byte,
) (*cryptoDomain.PasswordEncryptedPackage, error) {
	salt, err := e.keyGen.RandomBytes(e.cfg.SaltSize)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	derived, err := e.deriver.DeriveKey([]byte(password), salt, e.cfg.KDF)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}
	defer cryptoDomain.Zero(derived)

	cipher, err := e.aeadManager.CreateCipher(derived, cryptoDomain.AESGCM)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	ciphertext, nonce, err := cipher.Encrypt(data, aad)
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	sealed, err := cryptoDomain.NewEncryptedData(nonce, ciphertext)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.PasswordEncryptedPackage{
		Data: *sealed,
		Salt: salt,
		KDF:  e.cfg.KDF,
	}, nil
}

// openWithPassword reverses sealWithPassword. A wrong password, tampered
// ciphertext and mismatched aad are indistinguishable.
func (e *encryptionUseCase) openWithPassword(
	ctx context.Context,
	pkg *cryptoDomain.PasswordEncryptedPackage,
	password string,
	aad []byte,
) ([]byte, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}

	derived, err := e.deriver.DeriveKey([]byte(password), pkg.Salt, pkg.KDF)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(derived)

	cipher, err := e.aeadManager.CreateCipher(derived, cryptoDomain.AESGCM)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := cipher.Decrypt(pkg.Data.Sealed(), pkg.Data.IV, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptWithPassword seals data under a password-derived key.
func (e *encryptionUseCase) EncryptWithPassword(
	ctx context.Context,
	data []byte,
	password string,
) (pkg *cryptoDomain.PasswordEncryptedPackage, err error) {
	defer func() {
		if err != nil {
			e.logFailure("encrypt_with_password", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.passwords.Validate(password); err != nil {
		return nil, err
	}
	return e.sealWithPassword(data, password, nil)
}

// DecryptWithPassword opens a password package.
func (e *encryptionUseCase) DecryptWithPassword(
	ctx context.Context,
	pkg *cryptoDomain.PasswordEncryptedPackage,
	password string,
) (plaintext []byte, err error) {
	defer func() {
		if err != nil {
			e.logFailure("decrypt_with_password", err)
		}
	}()

	return e.openWithPassword(ctx, pkg, password, nil)
}

// GenerateEncryptionKey creates the key for keyID.
func (e *encryptionUseCase) GenerateEncryptionKey(ctx context.Context, keyID string) error {
	return e.keys.GenerateDataKey(ctx, keyID)
}

// exportAAD binds the wrapped key to the identifier and algorithm it is
// installed under on import.
func exportAAD(keyID string, alg cryptoDomain.Algorithm) []byte {
	return []byte(keyID + "\x00" + string(alg))
}

// ExportEncryptedData bundles encrypted with its password-wrapped key. The
// payload is opened once first so a package is never produced for data the
// key cannot decrypt.
func (e *encryptionUseCase) ExportEncryptedData(
	ctx context.Context,
	encrypted *cryptoDomain.EncryptedData,
	keyID string,
	password string,
) (pkg *cryptoDomain.ExportPackage, err error) {
	defer func() {
		if err != nil {
			e.logFailure("export_encrypted_data", err)
		}
	}()

	if encrypted == nil {
		return nil, errors.Wrap(cryptoDomain.ErrInvalidPackage, "missing encrypted data")
	}
	if err := e.passwords.Validate(password); err != nil {
		return nil, err
	}

	key, err := e.keys.GetDataKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	plaintext, err := e.open(key, encrypted)
	if err != nil {
		return nil, err
	}
	cryptoDomain.Zero(plaintext)

	wrapped, err := e.sealWithPassword(key.Key, password, exportAAD(keyID, key.Algorithm))
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}

	return &cryptoDomain.ExportPackage{
		Version:       cryptoDomain.ExportPackageVersion,
		ID:            id,
		KeyIdentifier: keyID,
		Algorithm:     key.Algorithm,
		WrappedKey:    *wrapped,
		Payload: cryptoDomain.EncryptedData{
			Ciphertext: append([]byte(nil), encrypted.Ciphertext...),
			IV:         append([]byte(nil), encrypted.IV...),
			AuthTag:    append([]byte(nil), encrypted.AuthTag...),
		},
		CreatedAt: e.now().UTC(),
	}, nil
}

// ImportEncryptedData unwraps and installs the key carried by pkg.
func (e *encryptionUseCase) ImportEncryptedData(
	ctx context.Context,
	pkg *cryptoDomain.ExportPackage,
	password string,
) (encrypted *cryptoDomain.EncryptedData, keyID string, err error) {
	defer func() {
		if err != nil {
			e.logFailure("import_encrypted_data", err)
		}
	}()

	if err := pkg.Validate(); err != nil {
		return nil, "", err
	}
	if err := validateIdentifier(pkg.KeyIdentifier); err != nil {
		return nil, "", err
	}

	material, err := e.openWithPassword(ctx, &pkg.WrappedKey, password, exportAAD(pkg.KeyIdentifier, pkg.Algorithm))
	if err != nil {
		return nil, "", err
	}
	defer cryptoDomain.Zero(material)
	if len(material) != cryptoDomain.KeySize {
		return nil, "", cryptoDomain.ErrDecryptionFailed
	}

	// CreatedAt records when the key entered this keystore; pkg.CreatedAt is
	// the export time.
	key := &cryptoDomain.DataKey{
		Identifier: pkg.KeyIdentifier,
		Algorithm:  pkg.Algorithm,
		Key:        material,
		CreatedAt:  e.now().UTC(),
	}
	if err := e.keys.InstallDataKey(ctx, key); err != nil {
		return nil, "", err
	}

	return &cryptoDomain.EncryptedData{
		Ciphertext: append([]byte(nil), pkg.Payload.Ciphertext...),
		IV:         append([]byte(nil), pkg.Payload.IV...),
		AuthTag:    append([]byte(nil), pkg.Payload.AuthTag...),
	}, pkg.KeyIdentifier, nil
}

// VerifyFileIntegrity compares a file's SHA-256 against expectedChecksum.
func (e *encryptionUseCase) VerifyFileIntegrity(
	ctx context.Context,
	path, expectedChecksum string,
) (ok bool, err error) {
	defer func() {
		if err != nil {
			e.logFailure("verify_file_integrity", err)
		}
	}()

	if err := validation.Validate(expectedChecksum, validation.Required, customValidation.SHA256Hex); err != nil {
		return false, errors.Wrap(cryptoDomain.ErrInvalidChecksum, err.Error())
	}

	actual, err := e.ComputeFileChecksum(ctx, path)
	if err != nil {
		return false, err
	}

	expected := strings.ToLower(expectedChecksum)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1, nil
}

// ComputeFileChecksum hashes the file at path.
func (e *encryptionUseCase) ComputeFileChecksum(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, contextReader{ctx: ctx, r: f}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NewEncryptionUseCase creates the encryption engine.
func NewEncryptionUseCase(
	keys KeyUseCase,
	aeadManager cryptoService.AEADManager,
	keyGen cryptoService.KeyGenerator,
	deriver cryptoService.KeyDeriver,
	passwords cryptoService.PasswordValidator,
	limiter *rate.Limiter,
	cfg EncryptionConfig,
	logger *slog.Logger,
) EncryptionUseCase {
	if cfg.FileChunkSize <= 0 {
		cfg.FileChunkSize = cryptoDomain.DefaultFileChunkSize
	}
	if cfg.SaltSize <= 0 {
		cfg.SaltSize = cryptoDomain.DefaultSaltSize
	}
	return &encryptionUseCase{
		keys:        keys,
		aeadManager: aeadManager,
		keyGen:      keyGen,
		deriver:     deriver,
		passwords:   passwords,
		limiter:     limiter,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}
