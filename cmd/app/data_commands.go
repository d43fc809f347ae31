package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/journalcrypt/cmd/app/commands"
	"github.com/allisson/journalcrypt/internal/app"
	"github.com/allisson/journalcrypt/internal/config"
	cryptoUseCase "github.com/allisson/journalcrypt/internal/crypto/usecase"
)

func inFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "in",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "Input file path",
	}
}

func outFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Required: true,
		Usage:    "Output file path",
	}
}

// withEncryption loads the configuration and runs fn with the encryption use
// case, shutting the container down afterwards.
func withEncryption(
	ctx context.Context,
	fn func(container *app.Container, encryptionUseCase cryptoUseCase.EncryptionUseCase) error,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()

	encryptionUseCase, err := container.EncryptionUseCase()
	if err != nil {
		return err
	}
	return fn(container, encryptionUseCase)
}

func getDataCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-file",
			Usage: "Encrypt a file under a data key, creating the key on first use",
			Flags: []cli.Flag{
				inFlag(),
				outFlag(),
				keyIDFlag(),
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunEncryptFile(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("in"),
						cmd.String("out"),
						cmd.String("key-id"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "decrypt-file",
			Usage: "Decrypt a file produced by encrypt-file",
			Flags: []cli.Flag{
				inFlag(),
				outFlag(),
				keyIDFlag(),
				&cli.StringFlag{
					Name:     "iv",
					Required: true,
					Usage:    "Base64 IV printed by encrypt-file",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunDecryptFile(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("in"),
						cmd.String("out"),
						cmd.String("key-id"),
						cmd.String("iv"),
					)
				})
			},
		},
		{
			Name:  "checksum",
			Usage: "Print the SHA-256 checksum of a file",
			Flags: []cli.Flag{inFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(_ *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunChecksum(ctx, uc, commands.DefaultIO().Writer, cmd.String("in"))
				})
			},
		},
		{
			Name:  "verify-file",
			Usage: "Compare a file with an expected SHA-256 checksum",
			Flags: []cli.Flag{
				inFlag(),
				&cli.StringFlag{
					Name:     "checksum",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Expected SHA-256 checksum in hex",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunVerifyFile(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("in"),
						cmd.String("checksum"),
					)
				})
			},
		},
		{
			Name:  "encrypt-with-password",
			Usage: "Seal a file under a password read from stdin",
			Flags: []cli.Flag{inFlag(), outFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunEncryptWithPassword(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("in"),
						cmd.String("out"),
					)
				})
			},
		},
		{
			Name:  "decrypt-with-password",
			Usage: "Open a password package with a password read from stdin",
			Flags: []cli.Flag{inFlag(), outFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunDecryptWithPassword(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("in"),
						cmd.String("out"),
					)
				})
			},
		},
		{
			Name:  "export-data",
			Usage: "Encrypt a file and bundle it with its data key sealed under a password read from stdin",
			Flags: []cli.Flag{inFlag(), outFlag(), keyIDFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunExportData(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("in"),
						cmd.String("out"),
						cmd.String("key-id"),
					)
				})
			},
		},
		{
			Name:  "import-data",
			Usage: "Install the data key from an export package and write the decrypted payload",
			Flags: []cli.Flag{inFlag(), outFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEncryption(ctx, func(container *app.Container, uc cryptoUseCase.EncryptionUseCase) error {
					return commands.RunImportData(
						ctx,
						uc,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("in"),
						cmd.String("out"),
					)
				})
			},
		},
	}
}
