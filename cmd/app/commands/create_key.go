package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

// RunCreateKey generates a new data key under keyID. It fails when the
// identifier is already in use; delete the key first to re-key.
func RunCreateKey(
	ctx context.Context,
	keyUseCase cryptoUseCase.KeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	keyID string,
	format string,
) error {
	logger.Info("creating data key", slog.String("key_id", keyID))

	if err := keyUseCase.GenerateDataKey(ctx, keyID); err != nil {
		return fmt.Errorf("failed to create data key: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]string{"key_id": keyID}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Data key created: %s\n", keyID)
	}

	logger.Info("data key created successfully", slog.String("key_id", keyID))
	return nil
}

// RunDeleteKey removes the data key under keyID. Anything encrypted under it
// can no longer be decrypted unless an export package still carries the key.
func RunDeleteKey(
	ctx context.Context,
	keyUseCase cryptoUseCase.KeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	keyID string,
) error {
	logger.Info("deleting data key", slog.String("key_id", keyID))

	if err := keyUseCase.DeleteKey(ctx, keyID); err != nil {
		return fmt.Errorf("failed to delete data key: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Data key deleted: %s\n", keyID)
	logger.Info("data key deleted successfully", slog.String("key_id", keyID))
	return nil
}
