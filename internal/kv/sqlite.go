package kv

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite implements KV on a single sqlite table, giving the map its
// restart-surviving, bytewise-ordered semantics.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ KV = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path and applies
// schema migrations. Parent directories are created if needed.
func OpenSQLite(path string) (*SQLite, error) {
	logger := slog.Default().With("component", "kv")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("kv store initialized", "path", path)
	return &SQLite{db: db, logger: logger}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	s.logger.Info("closing kv store")
	return s.db.Close()
}

// Get returns the value stored under key, or false if the key is absent.
func (s *SQLite) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying key: %w", err)
	}
	return v, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLite) Put(ctx context.Context, key, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing key: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *SQLite) Delete(ctx context.Context, key []byte) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}
	return nil
}

// Scan streams pairs with k >= start in ascending key order.
func (s *SQLite) Scan(ctx context.Context, start []byte, fn ScanFunc) error {
	// An empty start means "from the beginning". A nil slice would bind
	// SQL NULL and `k >= NULL` matches nothing, so skip the bound instead.
	query := `SELECT k, v FROM kv ORDER BY k ASC`
	args := []any{}
	if len(start) > 0 {
		query = `SELECT k, v FROM kv WHERE k >= ? ORDER BY k ASC`
		args = append(args, start)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("scanning keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("scanning kv row: %w", err)
		}
		cont, err := fn(k, v)
		if err != nil {
			return err
		}
		if !cont {
			return rows.Close()
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating kv rows: %w", err)
	}
	return nil
}
