// Package database provides the SQLite cache for computed zmanim and weekly readings.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory cache.
const MemoryPath = ":memory:"

// DB is the cache database.
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or MemoryPath
	MaxOpenConns    int           // 1: SQLite has a single writer
	MaxIdleConns    int           // keeps an in-memory database alive between queries
	ConnMaxLifetime time.Duration // 0 for MemoryPath, which dies with its connection
}

// DefaultConfig returns the pool settings for a cache at path.
func DefaultConfig(path string) Config {
	cfg := Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
	if path == MemoryPath {
		cfg.ConnMaxLifetime = 0
	}
	return cfg
}

// dsn adds the driver pragmas. WAL only applies to files.
func (c Config) dsn() string {
	if c.Path == MemoryPath {
		return c.Path + "?_busy_timeout=5000"
	}
	return c.Path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// Open connects to the cache, creating the file's directory if needed.
// The caller is responsible for calling Close.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create cache directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}

	logger.Info("cache database opened", slog.String("path", cfg.Path))

	return &DB{DB: sqlDB, logger: logger}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Debug("closing cache database")
	return db.DB.Close()
}

// Health pings the cache and checks that every migration has been applied.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping cache: %w", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version < len(migrationsSQL) {
		return fmt.Errorf("cache schema at version %d, want %d", version, len(migrationsSQL))
	}

	return nil
}

// SchemaVersion returns the highest applied migration, 0 before Migrate.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// =============================================================================
// Migrations
// =============================================================================

// Migrate applies pending migrations in version order inside one transaction
// and returns how many ran. Applied versions are never revisited.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	count := 0

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)
		`)
		if err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		var current int
		err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		for version := current + 1; version <= len(migrationsSQL); version++ {
			content, ok := migrationsSQL[version]
			if !ok {
				return fmt.Errorf("migration %d not found", version)
			}

			if _, err := tx.ExecContext(ctx, content); err != nil {
				return fmt.Errorf("execute migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}

			db.logger.Info("applied cache migration", slog.Int("version", version))
			count++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// =============================================================================
// Transactions
// =============================================================================

// WithTx runs fn in a transaction, committing if it returns nil and rolling
// back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// =============================================================================
// Errors
// =============================================================================

// ErrNotFound is returned when nothing is cached for a key.
var ErrNotFound = errors.New("record not found")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
