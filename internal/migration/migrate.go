package migration

import (
	"database/sql"
	"embed"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// Embed SQL files from the local migrations folder
//
//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const schema = "timeline"

// RunMigrations brings the timeline schema up to date.
func RunMigrations(dbURL string, logger zerolog.Logger) error {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return errors.Wrap(err, "connect to the database")
	}
	defer db.Close()

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + schema); err != nil {
		return errors.Wrapf(err, "create schema %s", schema)
	}

	goose.SetLogger(NewGooseAdapter(logger))
	goose.SetBaseFS(embeddedMigrations)
	goose.SetTableName(schema + ".goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	logger.Info().Msg("Migrations completed successfully")
	return nil
}
