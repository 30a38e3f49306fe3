// Package db is the Postgres settings backend.
package db

import (
	"context"
	"database/sql"
	"embed"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/easysystem/assistant/common/log"

	// pgx driver for migrations
	_ "github.com/jackc/pgx/v4/stdlib"
)

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type DB struct {
	*pgxpool.Pool
}

// New connects to postgres, running migrations first unless noMigrate is set.
func New(ctx context.Context, url string, noMigrate bool) (*DB, error) {
	if !noMigrate {
		err := RunMigrations(url)
		if err != nil {
			return nil, errors.Wrap(err, "running migrations")
		}
	}

	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}

	return &DB{Pool: pool}, nil
}

//go:embed migrations
var fs embed.FS

// RunMigrations runs all of the migrations in migrations/.
func RunMigrations(url string) (err error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	// only used for migrations, everything else goes through the pgx pool
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return errors.Wrap(err, "pinging database")
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "migrations",
	}

	migrate.SetTable("migration_history")

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	if n != 0 {
		log.Infof("Performed %v migrations!", n)
	}
	return nil
}
