package data

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/migrations"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// ErrConnectionUnavailable marks a store that cannot be reached or opened.
var ErrConnectionUnavailable = errors.New("database connection unavailable")

// NewSqliteClient opens the embedded store with foreign keys enforced and
// applies schema migrations. Safe to call on every startup: an up-to-date
// schema is a no-op.
func NewSqliteClient(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_foreign_keys=on&_busy_timeout=%d",
		cfg.Sqlite.Path,
		cfg.Sqlite.BusyTimeout.Milliseconds(),
	)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %s", ErrConnectionUnavailable, cfg.Sqlite.Path, err)
	}

	if err := migrateSqlite(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Info("sqlite connected and migrated", slog.String("path", cfg.Sqlite.Path))

	return db, nil
}

func migrateSqlite(db *sqlx.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
