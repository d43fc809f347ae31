package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

// RunChecksum prints the SHA-256 checksum of the file at path in the
// sha256sum layout.
func RunChecksum(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	writer io.Writer,
	path string,
) error {
	checksum, err := encryptionUseCase.ComputeFileChecksum(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to compute checksum: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "%s  %s\n", checksum, path)
	return nil
}

// RunVerifyFile compares the file at path with an expected SHA-256 checksum.
// A mismatch is reported and returned as ErrInvalidChecksum so the process
// exits non-zero.
func RunVerifyFile(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	path, checksum string,
) error {
	ok, err := encryptionUseCase.VerifyFileIntegrity(ctx, path, checksum)
	if err != nil {
		return fmt.Errorf("failed to verify file: %w", err)
	}

	if !ok {
		_, _ = fmt.Fprintf(writer, "%s: FAILED\n", path)
		logger.Warn("file checksum mismatch", slog.String("path", path))
		return fmt.Errorf("%s: %w", path, cryptoDomain.ErrInvalidChecksum)
	}

	_, _ = fmt.Fprintf(writer, "%s: OK\n", path)
	return nil
}
