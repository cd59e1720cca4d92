// Package postgres persists the product record set into a Postgres JSONB row.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/supplysight?sslmode=disable"
	bucket        = "products"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Backend keeps the record set in state(bucket, payload JSONB).
type Backend struct {
	db *sql.DB
}

// New connects using dsn (falls back to defaultDSN) and ensures the state table.
func New(ctx context.Context, dsn string) (*Backend, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Driver() storage.Driver { return storage.DriverPostgres }

func (b *Backend) Load(ctx context.Context) ([]model.Product, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("postgres: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return storage.Decode(payload)
}

func (b *Backend) Save(ctx context.Context, products []model.Product) error {
	data, err := storage.Encode(products)
	if err != nil {
		return err
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, data); err != nil {
		return fmt.Errorf("upsert %s: %w", bucket, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (b *Backend) Close() error { return b.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
