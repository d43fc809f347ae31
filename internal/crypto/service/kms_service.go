package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	// Register KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// kmsSchemes are the KMS_KEY_URI schemes with a registered driver.
var kmsSchemes = map[string]bool{
	"awskms":        true,
	"azurekeyvault": true,
	"gcpkms":        true,
	"hashivault":    true,
	"base64key":     true,
}

// KMSService opens the keeper that wraps data keys for the kms keystore.
type KMSService interface {
	// OpenKeeper opens the keeper named by keyURI and checks that it can wrap
	// and unwrap a data key before returning it. Unknown schemes yield
	// ErrKeystoreUnsupported.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || !kmsSchemes[u.Scheme] {
		return nil, fmt.Errorf("%w: KMS key URI scheme not recognized", cryptoDomain.ErrKeystoreUnsupported)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	if err := checkKeeper(ctx, keeper); err != nil {
		_ = keeper.Close()
		return nil, err
	}
	return keeper, nil
}

// checkKeeper round-trips a throwaway data key through keeper.
func checkKeeper(ctx context.Context, keeper KMSKeeper) error {
	sample := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(sample); err != nil {
		return fmt.Errorf("failed to generate KMS check key: %w", err)
	}
	defer cryptoDomain.Zero(sample)

	wrapped, err := keeper.Encrypt(ctx, sample)
	if err != nil {
		return fmt.Errorf("KMS keeper cannot wrap data keys: %w", err)
	}
	unwrapped, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return fmt.Errorf("KMS keeper cannot unwrap data keys: %w", err)
	}
	defer cryptoDomain.Zero(unwrapped)

	if subtle.ConstantTimeCompare(sample, unwrapped) != 1 {
		return errors.New("KMS keeper returned a different data key on unwrap")
	}
	return nil
}
