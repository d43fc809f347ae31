package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/journalcrypt/internal/crypto/service"
	"github.com/allisson/journalcrypt/internal/errors"
	customValidation "github.com/allisson/journalcrypt/internal/validation"
)

type keyUseCase struct {
	store     KeyStore
	keyGen    cryptoService.KeyGenerator
	algorithm cryptoDomain.Algorithm
	locker    *keyLocker
	logger    *slog.Logger
	now       func() time.Time
}

// validateIdentifier applies the identifier rules from internal/validation.
func validateIdentifier(identifier string) error {
	if err := validation.Validate(identifier, customValidation.KeyIdentifier()...); err != nil {
		return errors.Wrap(cryptoDomain.ErrInvalidIdentifier, err.Error())
	}
	return nil
}

// retrievalError wraps a keystore failure so both ErrKeyRetrievalFailed and
// the underlying cause match with errors.Is.
func retrievalError(err error) error {
	return fmt.Errorf("%w: %w", cryptoDomain.ErrKeyRetrievalFailed, err)
}

func (k *keyUseCase) logFailure(operation string, err error) {
	k.logger.Warn("key operation failed",
		slog.String("operation", operation),
		slog.String("error_kind", cryptoDomain.ErrorKind(err)),
	)
}

func (k *keyUseCase) newDataKey(identifier string) (*cryptoDomain.DataKey, error) {
	material, err := k.keyGen.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
	}
	return &cryptoDomain.DataKey{
		Identifier: identifier,
		Algorithm:  k.algorithm,
		Key:        material,
		CreatedAt:  k.now().UTC(),
	}, nil
}

// GenerateDataKey creates and stores a fresh key.
func (k *keyUseCase) GenerateDataKey(ctx context.Context, identifier string) (err error) {
	defer func() {
		if err != nil {
			k.logFailure("generate_data_key", err)
		}
	}()

	if err := validateIdentifier(identifier); err != nil {
		return err
	}

	unlock := k.locker.Lock(identifier)
	defer unlock()

	key, err := k.newDataKey(identifier)
	if err != nil {
		return err
	}
	defer key.Zero()

	if err := k.store.Put(ctx, key); err != nil {
		if errors.Is(err, cryptoDomain.ErrKeyAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to store data key: %w", err)
	}
	return nil
}

// GetDataKey loads an existing key.
func (k *keyUseCase) GetDataKey(
	ctx context.Context,
	identifier string,
) (key *cryptoDomain.DataKey, err error) {
	defer func() {
		if err != nil {
			k.logFailure("get_data_key", err)
		}
	}()

	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}
	return k.load(ctx, identifier)
}

func (k *keyUseCase) load(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	key, err := k.store.Get(ctx, identifier)
	if err != nil {
		return nil, retrievalError(err)
	}
	if err := key.Validate(); err != nil {
		key.Zero()
		return nil, retrievalError(err)
	}
	return key, nil
}

// GetOrCreateDataKey loads the key, creating it under the identifier lock
// when the store reports it missing. Any other retrieval failure, such as a
// denied access gate, is returned as is and never triggers creation.
func (k *keyUseCase) GetOrCreateDataKey(
	ctx context.Context,
	identifier string,
) (key *cryptoDomain.DataKey, err error) {
	defer func() {
		if err != nil {
			k.logFailure("get_or_create_data_key", err)
		}
	}()

	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}

	key, err = k.load(ctx, identifier)
	if err == nil || !errors.Is(err, cryptoDomain.ErrKeyNotFound) {
		return key, err
	}

	unlock := k.locker.Lock(identifier)
	defer unlock()

	// Another goroutine may have created it while we waited.
	key, err = k.load(ctx, identifier)
	if err == nil || !errors.Is(err, cryptoDomain.ErrKeyNotFound) {
		return key, err
	}

	key, err = k.newDataKey(identifier)
	if err != nil {
		return nil, err
	}
	if err := k.store.Put(ctx, key); err != nil {
		key.Zero()
		if errors.Is(err, cryptoDomain.ErrKeyAlreadyExists) {
			// Created by another process sharing the store.
			return k.load(ctx, identifier)
		}
		return nil, fmt.Errorf("failed to store data key: %w", err)
	}

	k.logger.Debug("data key created on first use", slog.String("operation", "get_or_create_data_key"))
	return key, nil
}

// InstallDataKey stores imported key material.
func (k *keyUseCase) InstallDataKey(ctx context.Context, key *cryptoDomain.DataKey) (err error) {
	defer func() {
		if err != nil {
			k.logFailure("install_data_key", err)
		}
	}()

	if err := validateIdentifier(key.Identifier); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}

	unlock := k.locker.Lock(key.Identifier)
	defer unlock()

	existing, err := k.load(ctx, key.Identifier)
	switch {
	case err == nil:
		defer existing.Zero()
		return compareInstalled(existing, key)
	case !errors.Is(err, cryptoDomain.ErrKeyNotFound):
		return err
	}

	if key.CreatedAt.IsZero() {
		installed := *key
		installed.CreatedAt = k.now().UTC()
		key = &installed
	}
	if err := k.store.Put(ctx, key); err != nil {
		if !errors.Is(err, cryptoDomain.ErrKeyAlreadyExists) {
			return fmt.Errorf("failed to store data key: %w", err)
		}
		existing, err := k.load(ctx, key.Identifier)
		if err != nil {
			return err
		}
		defer existing.Zero()
		return compareInstalled(existing, key)
	}
	return nil
}

func compareInstalled(existing, incoming *cryptoDomain.DataKey) error {
	same := subtle.ConstantTimeCompare(existing.Key, incoming.Key) == 1
	if !same || existing.Algorithm != incoming.Algorithm {
		return cryptoDomain.ErrKeyConflict
	}
	return nil
}

// DeleteKey removes a key. Absent keys are not an error.
func (k *keyUseCase) DeleteKey(ctx context.Context, identifier string) (err error) {
	defer func() {
		if err != nil {
			k.logFailure("delete_key", err)
		}
	}()

	if err := validateIdentifier(identifier); err != nil {
		return err
	}

	unlock := k.locker.Lock(identifier)
	defer unlock()

	if err := k.store.Delete(ctx, identifier); err != nil {
		return fmt.Errorf("failed to delete data key: %w", err)
	}
	return nil
}

// KeyExists reports whether the identifier holds a key.
func (k *keyUseCase) KeyExists(ctx context.Context, identifier string) (bool, error) {
	if err := validateIdentifier(identifier); err != nil {
		return false, err
	}
	exists, err := k.store.Exists(ctx, identifier)
	if err != nil {
		k.logFailure("key_exists", err)
		return false, retrievalError(err)
	}
	return exists, nil
}

// NewKeyUseCase creates a KeyUseCase that generates keys for algorithm.
func NewKeyUseCase(
	store KeyStore,
	keyGen cryptoService.KeyGenerator,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) KeyUseCase {
	return &keyUseCase{
		store:     store,
		keyGen:    keyGen,
		algorithm: algorithm,
		locker:    newKeyLocker(),
		logger:    logger,
		now:       time.Now,
	}
}
