package commands

import (
	"database/sql"
	"log/slog"

	"github.com/allisson/journalcrypt/internal/database"
)

// RunMigrations applies the embedded data_keys migrations for driver
// ("postgres" or "mysql") over db. Only the SQL keystores need a schema.
func RunMigrations(logger *slog.Logger, db *sql.DB, driver string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	m, err := database.NewMigrate(db, driver)
	if err != nil {
		return err
	}
	defer closeMigrate(m, logger)

	changed, err := database.MigrateUp(m)
	if err != nil {
		return err
	}

	if !changed {
		logger.Info("no migrations to apply")
		return nil
	}
	logger.Info("migrations completed successfully")
	return nil
}
