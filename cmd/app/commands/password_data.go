package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

// RunEncryptWithPassword seals the file at src under a password read from the
// command input and writes the password package to dst as JSON. No data key is
// involved.
func RunEncryptWithPassword(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	logger *slog.Logger,
	io IOTuple,
	src, dst string,
) error {
	plaintext, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	defer clear(plaintext)

	password, err := readPassword(io, "Password: ")
	if err != nil {
		return err
	}

	pkg, err := encryptionUseCase.EncryptWithPassword(ctx, plaintext, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt with password: %w", err)
	}

	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode password package: %w", err)
	}
	if err := writeSecretFile(dst, data); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "Password package written to %s\n", dst)
	logger.Info("data encrypted with password",
		slog.String("dst", dst),
		slog.String("kdf", string(pkg.KDF.Algorithm)),
	)
	return nil
}

// RunDecryptWithPassword opens the password package at src and writes the
// plaintext to dst.
func RunDecryptWithPassword(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	logger *slog.Logger,
	io IOTuple,
	src, dst string,
) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	var pkg cryptoDomain.PasswordEncryptedPackage
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return fmt.Errorf("failed to decode password package: %w", err)
	}

	password, err := readPassword(io, "Password: ")
	if err != nil {
		return err
	}

	plaintext, err := encryptionUseCase.DecryptWithPassword(ctx, &pkg, password)
	if err != nil {
		return fmt.Errorf("failed to decrypt with password: %w", err)
	}
	defer clear(plaintext)

	if err := writeSecretFile(dst, plaintext); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "Decrypted data written to %s\n", dst)
	logger.Info("data decrypted with password", slog.String("dst", dst))
	return nil
}
