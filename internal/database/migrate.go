package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// NewMigrator builds a migrate instance on top of an open connection.
// The instance owns db once created: closing it closes the connection.
func NewMigrator(db *sqlx.DB, dbType config.DBType) (*migrate.Migrate, error) {
	dir := "migrations/sqlite"
	driverName := "sqlite3"
	var driver migratedb.Driver
	var err error

	if dbType == config.DBTypePostgreSQL {
		dir = "migrations/postgres"
		driverName = "postgres"
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	} else {
		// Use driver instance directly to avoid DSN parsing issues with in-memory SQLite
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", driverName, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("could not open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations. An up-to-date schema is not an error.
func Migrate(db *sqlx.DB, dbType config.DBType) error {
	m, err := NewMigrator(db, dbType)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
