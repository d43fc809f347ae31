package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/journalcrypt/cmd/app/commands"
	"github.com/allisson/journalcrypt/internal/app"
	"github.com/allisson/journalcrypt/internal/config"
)

func keyIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "key-id",
		Aliases:  []string{"k"},
		Required: true,
		Usage:    "Data key identifier (e.g., journal-42)",
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key",
			Usage: "Generate a new data key",
			Flags: []cli.Flag{
				keyIDFlag(),
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyUseCase, err := container.KeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateKey(
					ctx,
					keyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "delete-key",
			Usage: "Delete a data key; data encrypted under it becomes unreadable",
			Flags: []cli.Flag{keyIDFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyUseCase, err := container.KeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeleteKey(
					ctx,
					keyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key-id"),
				)
			},
		},
	}
}
