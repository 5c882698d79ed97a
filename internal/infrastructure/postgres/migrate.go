package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" //nolint:blank-imports
	goose "github.com/pressly/goose/v3"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/migrations"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// Migrator aplica las migraciones SQL embebidas con goose.
type Migrator struct {
	dsn string
	log *logger.Logger
}

// NewMigrator construye el migrador para el DSN dado.
func NewMigrator(dsn string, log *logger.Logger) *Migrator {
	return &Migrator{dsn: dsn, log: log}
}

func (m *Migrator) open() (*sql.DB, error) {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir DB para migraciones: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpContext(ctx, db, "."); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("migrate up: %w", err)
	}
	v, _ := goose.GetDBVersionContext(ctx, db)
	m.log.Info().Int64("version", v).Msg("migraciones aplicadas")
	return nil
}

// Down revierte la última migración.
func (m *Migrator) Down(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrationStatus estado de una migración.
type MigrationStatus struct {
	Version int64
	Source  string
	Applied bool
}

// Status lista las migraciones conocidas y si están aplicadas.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	db, err := m.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	current, err := goose.EnsureDBVersionContext(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("leer versión: %w", err)
	}
	all, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	out := make([]MigrationStatus, 0, len(all))
	for _, mg := range all {
		out = append(out, MigrationStatus{Version: mg.Version, Source: mg.Source, Applied: mg.Version <= current})
	}
	return out, nil
}
