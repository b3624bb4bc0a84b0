// Package migrations applies the embedded PostgreSQL schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Migrator runs schema migrations against a database handle.
type Migrator struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator.
func NewMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	instance, err := m.instance(ctx)
	if err != nil {
		return err
	}
	defer m.close(instance)

	err = instance.Up()

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.logger.Info("schema up to date")
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	default:
		m.logger.Info("schema migrated")
	}

	return nil
}

// Version returns the applied schema version.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	instance, err := m.instance(ctx)
	if err != nil {
		return 0, false, err
	}
	defer m.close(instance)

	return instance.Version()
}

// instance builds a migrate.Migrate on a dedicated connection taken from
// m.db. Closing the instance releases that connection and leaves m.db open.
func (m *Migrator) instance(ctx context.Context) (*migrate.Migrate, error) {
	source, err := iofs.New(schemaFiles, "schema")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		_ = source.Close()

		return nil, fmt.Errorf("acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		_ = source.Close()

		return nil, fmt.Errorf("open migration driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		_ = source.Close()

		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return instance, nil
}

func (m *Migrator) close(instance *migrate.Migrate) {
	srcErr, dbErr := instance.Close()
	if srcErr != nil || dbErr != nil {
		m.logger.Warn("failed to close migrator",
			zap.NamedError("source_error", srcErr),
			zap.NamedError("database_error", dbErr),
		)
	}
}
