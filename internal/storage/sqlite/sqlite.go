// Package sqlite persists the product record set into a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
)

const bucket = "products"

// Backend snapshots the full record set as one JSON payload row in
// state(bucket, payload) and replaces it on every Save.
type Backend struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at path and ensures the state table.
func New(path string) (*Backend, error) {
	if path == "" {
		path = "supplysight.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Backend{db: db, path: path}, nil
}

func (b *Backend) Driver() storage.Driver { return storage.DriverSQLite }

func (b *Backend) Load(ctx context.Context) ([]model.Product, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite %s: %w", b.path, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return storage.Decode(payload)
}

func (b *Backend) Save(ctx context.Context, products []model.Product) (retErr error) {
	data, err := storage.Encode(products)
	if err != nil {
		return err
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
		return fmt.Errorf("upsert %s: %w", bucket, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (b *Backend) Close() error { return b.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (b *Backend) DB() *sql.DB { return b.db }
