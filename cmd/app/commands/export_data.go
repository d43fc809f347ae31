package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

// RunExportData encrypts the file at src under keyID and writes an export
// package to dst. The data key travels in the package sealed under a password
// read from the command input.
func RunExportData(
	ctx context.Context,
	encryptionUseCase cryptoUseCase.EncryptionUseCase,
	logger *slog.Logger,
	io IOTuple,
	src, dst, keyID string,
) error {
	plaintext, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	password, err := readPassword(io, "Export password: ")
	if err != nil {
		return err
	}

	logger.Info("exporting data", slog.String("src", src), slog.String("key_id", keyID))

	encrypted, err := encryptionUseCase.EncryptData(ctx, plaintext, keyID)
	if err != nil {
		return fmt.Errorf("failed to encrypt data: %w", err)
	}

	pkg, err := encryptionUseCase.ExportEncryptedData(ctx, encrypted, keyID, password)
	if err != nil {
		return fmt.Errorf("failed to export data: %w", err)
	}

	data, err := cryptoDomain.MarshalExportPackage(pkg)
	if err != nil {
		return fmt.Errorf("failed to encode export package: %w", err)
	}
	if err := writeSecretFile(dst, data); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "Export package %s written to %s\n", pkg.ID, dst)
	logger.Info("data exported successfully",
		slog.String("package_id", pkg.ID.String()),
		slog.String("dst", dst),
	)
	return nil
}

// RunImportData opens the export package at src, installs its data key and
// writes the decrypted payload to dst.
func RunImportData(
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

	pkg, err := cryptoDomain.UnmarshalExportPackage(raw)
	if err != nil {
		return fmt.Errorf("failed to decode export package: %w", err)
	}

	password, err := readPassword(io, "Export password: ")
	if err != nil {
		return err
	}

	logger.Info("importing data", slog.String("package_id", pkg.ID.String()))

	encrypted, keyID, err := encryptionUseCase.ImportEncryptedData(ctx, pkg, password)
	if err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	plaintext, err := encryptionUseCase.DecryptData(ctx, encrypted, keyID)
	if err != nil {
		return fmt.Errorf("failed to decrypt imported data: %w", err)
	}
	defer clear(plaintext)

	if err := writeSecretFile(dst, plaintext); err != nil {
		return err
	}

	writeImportResult(io.Writer, keyID, dst)
	logger.Info("data imported successfully",
		slog.String("package_id", pkg.ID.String()),
		slog.String("key_id", keyID),
	)
	return nil
}

func writeImportResult(writer io.Writer, keyID, dst string) {
	_, _ = fmt.Fprintf(writer, "Data key installed: %s\n", keyID)
	_, _ = fmt.Fprintf(writer, "Decrypted data written to %s\n", dst)
}
