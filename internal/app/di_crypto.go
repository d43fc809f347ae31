package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/time/rate"

	"github.com/allisson/journalcrypt/internal/config"
	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoRepository "github.com/allisson/journalcrypt/internal/crypto/repository"
	cryptoService "github.com/allisson/journalcrypt/internal/crypto/service"
	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

// SetAccessGate installs a gate run before every key read, for instance a
// biometric prompt supplied by the host application. It only takes effect
// when called before the keystore is first used.
func (c *Container) SetAccessGate(gate cryptoRepository.AccessGate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessGate = gate
}

// KeyStore returns the keystore selected by KEYSTORE_DRIVER, wrapped with
// KMS and the access gate when configured.
func (c *Container) KeyStore() (cryptoUseCase.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyGenerator returns the key generator service.
func (c *Container) KeyGenerator() cryptoService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = cryptoService.NewKeyGenerator()
	})
	return c.keyGenerator
}

// KeyDeriver returns the password key derivation service.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewKeyDeriver()
	})
	return c.keyDeriver
}

// PasswordValidator returns the password strength validator.
func (c *Container) PasswordValidator() cryptoService.PasswordValidator {
	c.passwordValidatorInit.Do(func() {
		c.passwordValidator = cryptoService.NewPasswordValidator(
			c.config.PasswordMinLength,
			c.config.PasswordMinCharClasses,
		)
	})
	return c.passwordValidator
}

// PasswordLimiter returns the limiter shared by all password decryption attempts.
func (c *Container) PasswordLimiter() *rate.Limiter {
	c.passwordLimiterInit.Do(func() {
		c.passwordLimiter = rate.NewLimiter(
			rate.Limit(c.config.PasswordAttemptsPerSec),
			c.config.PasswordAttemptsBurst,
		)
	})
	return c.passwordLimiter
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyUseCase returns the key management use case.
func (c *Container) KeyUseCase() (cryptoUseCase.KeyUseCase, error) {
	var err error
	c.keyUseCaseInit.Do(func() {
		c.keyUseCase, err = c.initKeyUseCase()
		if err != nil {
			c.initErrors["keyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyUseCase, nil
}

// EncryptionUseCase returns the encryption engine.
func (c *Container) EncryptionUseCase() (cryptoUseCase.EncryptionUseCase, error) {
	var err error
	c.encryptionUseCaseInit.Do(func() {
		c.encryptionUseCase, err = c.initEncryptionUseCase()
		if err != nil {
			c.initErrors["encryptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.encryptionUseCase, nil
}

// initKeyStore creates the configured keystore and its decorators.
func (c *Container) initKeyStore() (cryptoUseCase.KeyStore, error) {
	logger := c.Logger()

	store, err := c.initBaseKeyStore()
	if err != nil {
		return nil, err
	}

	if c.config.KMSKeyURI != "" {
		keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		c.kmsKeeper = keeper
		store = cryptoRepository.NewKMSKeyStore(store, keeper)
		logger.Info("data keys wrapped with kms")
	} else if c.config.KeystoreDriver == config.KeystorePostgres || c.config.KeystoreDriver == config.KeystoreMySQL {
		logger.Warn("sql keystore without KMS_KEY_URI stores data keys unwrapped",
			slog.String("driver", c.config.KeystoreDriver),
		)
	}

	c.mu.Lock()
	gate := c.accessGate
	c.mu.Unlock()
	if gate != nil {
		store = cryptoRepository.NewGatedKeyStore(store, gate)
	}

	return store, nil
}

// initBaseKeyStore selects the keystore adapter based on KEYSTORE_DRIVER.
func (c *Container) initBaseKeyStore() (cryptoUseCase.KeyStore, error) {
	switch c.config.KeystoreDriver {
	case config.KeystoreMemory:
		return cryptoRepository.NewMemoryKeyStore(), nil
	case config.KeystoreFile:
		store, err := cryptoRepository.NewFileKeyStore(c.config.KeystorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file keystore: %w", err)
		}
		return store, nil
	case config.KeystoreBadger:
		store, err := cryptoRepository.OpenBadgerKeyStore(c.config.KeystorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger keystore: %w", err)
		}
		c.badgerKeys = store
		return store, nil
	case config.KeystoreKeychain:
		store, err := cryptoRepository.NewKeychainKeyStore(c.config.KeychainNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to open keychain keystore: %w", err)
		}
		return store, nil
	case config.KeystorePostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for keystore: %w", err)
		}
		return cryptoRepository.NewPostgreSQLKeyStore(db), nil
	case config.KeystoreMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for keystore: %w", err)
		}
		return cryptoRepository.NewMySQLKeyStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported keystore driver: %s", c.config.KeystoreDriver)
	}
}

// initKeyUseCase creates the key management use case.
func (c *Container) initKeyUseCase() (cryptoUseCase.KeyUseCase, error) {
	store, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore for key use case: %w", err)
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.DataKeyAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_KEY_ALGORITHM %q: %w", c.config.DataKeyAlgorithm, err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key use case: %w", err)
	}

	useCase := cryptoUseCase.NewKeyUseCase(store, c.KeyGenerator(), algorithm, c.Logger())
	return cryptoUseCase.NewKeyUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initEncryptionUseCase creates the encryption engine.
func (c *Container) initEncryptionUseCase() (cryptoUseCase.EncryptionUseCase, error) {
	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for encryption use case: %w", err)
	}

	encryptionConfig, err := c.encryptionConfig()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for encryption use case: %w", err)
	}

	useCase := cryptoUseCase.NewEncryptionUseCase(
		keyUseCase,
		c.AEADManager(),
		c.KeyGenerator(),
		c.KeyDeriver(),
		c.PasswordValidator(),
		c.PasswordLimiter(),
		encryptionConfig,
		c.Logger(),
	)
	return cryptoUseCase.NewEncryptionUseCaseWithMetrics(useCase, businessMetrics), nil
}

// encryptionConfig builds and validates the KDF and file settings.
func (c *Container) encryptionConfig() (cryptoUseCase.EncryptionConfig, error) {
	var kdf cryptoDomain.KDFParams
	switch cryptoDomain.KDFAlgorithm(c.config.KDFAlgorithm) {
	case cryptoDomain.PBKDF2SHA256:
		kdf = cryptoDomain.KDFParams{
			Algorithm:  cryptoDomain.PBKDF2SHA256,
			Iterations: clampUint32(c.config.PBKDF2Iterations),
			KeyLength:  cryptoDomain.KeySize,
		}
	case cryptoDomain.Argon2id:
		kdf = cryptoDomain.KDFParams{
			Algorithm:  cryptoDomain.Argon2id,
			Iterations: clampUint32(c.config.Argon2Time),
			Memory:     clampUint32(c.config.Argon2MemoryKiB),
			Threads:    uint8(min(max(c.config.Argon2Threads, 0), 255)),
			KeyLength:  cryptoDomain.KeySize,
		}
	default:
		return cryptoUseCase.EncryptionConfig{}, fmt.Errorf("invalid KDF_ALGORITHM %q", c.config.KDFAlgorithm)
	}
	if err := kdf.Validate(); err != nil {
		return cryptoUseCase.EncryptionConfig{}, fmt.Errorf("invalid kdf configuration: %w", err)
	}

	if c.config.KDFSaltSize < cryptoDomain.MinSaltSize || c.config.KDFSaltSize > cryptoDomain.MaxSaltSize {
		return cryptoUseCase.EncryptionConfig{}, fmt.Errorf(
			"invalid KDF_SALT_SIZE %d: must be between %d and %d",
			c.config.KDFSaltSize, cryptoDomain.MinSaltSize, cryptoDomain.MaxSaltSize,
		)
	}
	if c.config.FileChunkSize <= 0 {
		return cryptoUseCase.EncryptionConfig{}, fmt.Errorf("invalid FILE_CHUNK_SIZE %d", c.config.FileChunkSize)
	}
	// The password limiter needs a positive rate and burst.
	if c.config.PasswordAttemptsBurst < 1 {
		return cryptoUseCase.EncryptionConfig{}, fmt.Errorf(
			"invalid PASSWORD_ATTEMPTS_BURST %d: must be at least 1", c.config.PasswordAttemptsBurst,
		)
	}
	if !(c.config.PasswordAttemptsPerSec > 0) {
		return cryptoUseCase.EncryptionConfig{}, fmt.Errorf(
			"invalid PASSWORD_ATTEMPTS_PER_SEC %v: must be greater than 0", c.config.PasswordAttemptsPerSec,
		)
	}

	return cryptoUseCase.EncryptionConfig{
		KDF:           kdf,
		SaltSize:      c.config.KDFSaltSize,
		FileChunkSize: c.config.FileChunkSize,
	}, nil
}

// clampUint32 keeps out-of-range settings out of range after conversion, so
// KDF validation still sees them.
func clampUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
