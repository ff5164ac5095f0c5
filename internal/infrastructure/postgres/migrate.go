package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql
	"github.com/jhoicas/stockmaster/internal/infrastructure/postgres/migrations"
	"github.com/rs/zerolog"
)

// Migrator aplica el esquema embebido con golang-migrate.
type Migrator struct {
	migrate *migrate.Migrate
	log     zerolog.Logger
}

// NewMigrator abre una conexión database/sql propia (golang-migrate no usa pgxpool).
func NewMigrator(dsn string, log zerolog.Logger) (*Migrator, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir conexión de migración: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("driver postgres de migración: %w", err)
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fuente de migraciones: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("crear migrate: %w", err)
	}
	return &Migrator{migrate: m, log: log.With().Str("component", "migrate").Logger()}, nil
}

// Up aplica las migraciones pendientes. Sin cambios no es error.
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("sin migraciones pendientes")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migración up: %w", err)
	}
	return m.logVersion("migraciones aplicadas")
}

// Down revierte todas las migraciones.
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("sin migraciones para revertir")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migración down: %w", err)
	}
	m.log.Info().Msg("migraciones revertidas")
	return nil
}

// Steps aplica n migraciones (positivo = up, negativo = down).
func (m *Migrator) Steps(n int) error {
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migración steps %d: %w", n, err)
	}
	return m.logVersion("pasos de migración aplicados")
}

// Version devuelve la versión actual; 0 si no hay ninguna aplicada.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Force fija la versión sin ejecutar SQL (recuperación de un estado dirty).
func (m *Migrator) Force(version int) error {
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("forzar versión %d: %w", version, err)
	}
	return nil
}

// Close libera la fuente y la conexión.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

func (m *Migrator) logVersion(msg string) error {
	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("leer versión de migración: %w", err)
	}
	m.log.Info().Uint("version", v).Bool("dirty", dirty).Msg(msg)
	return nil
}
