package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

// RunEncryptFile encrypts src into dst under keyID and prints the IV, which
// must be kept to decrypt the file later.
func RunEncryptFile(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	src, dst, keyID string,
	format string,
) error {
	logger.Info("encrypting file",
		slog.String("src", src),
		slog.String("dst", dst),
		slog.String("key_id", keyID),
	)

	iv, err := encryptionUseCase.EncryptFile(ctx, src, dst, keyID)
	if err != nil {
		return fmt.Errorf("failed to encrypt file: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]string{
			"path":   dst,
			"key_id": keyID,
			"iv":     iv,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Encrypted file written to %s\n", dst)
		_, _ = fmt.Fprintf(writer, "IV: %s\n", iv)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: Keep the IV, it is required to decrypt the file.")
	}

	logger.Info("file encrypted successfully", slog.String("dst", dst))
	return nil
}

// RunDecryptFile decrypts src into dst. dst is only created when the whole
// file authenticates.
func RunDecryptFile(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	src, dst, keyID, iv string,
) error {
	if iv == "" {
		return fmt.Errorf("--iv is required")
	}

	logger.Info("decrypting file",
		slog.String("src", src),
		slog.String("dst", dst),
		slog.String("key_id", keyID),
	)

	if err := encryptionUseCase.DecryptFile(ctx, src, dst, keyID, iv); err != nil {
		return fmt.Errorf("failed to decrypt file: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Decrypted file written to %s\n", dst)
	logger.Info("file decrypted successfully", slog.String("dst", dst))
	return nil
}
