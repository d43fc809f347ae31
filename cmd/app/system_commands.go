package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/journalcrypt/cmd/app/commands"
	"github.com/allisson/journalcrypt/internal/app"
	"github.com/allisson/journalcrypt/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Create the data_keys table for the postgres and mysql keystores",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if cfg.KeystoreDriver != config.KeystorePostgres && cfg.KeystoreDriver != config.KeystoreMySQL {
					return fmt.Errorf("keystore driver %q does not use a database", cfg.KeystoreDriver)
				}

				db, err := container.DB()
				if err != nil {
					return err
				}

				return commands.RunMigrations(container.Logger(), db, cfg.KeystoreDriver)
			},
		},
		{
			Name:  "version",
			Usage: "Print the application version",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				_, err := fmt.Fprintln(commands.DefaultIO().Writer, version)
				return err
			},
		},
	}
}
