// Package file stores the product record set as a flat JSON file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
)

const lockRetry = 25 * time.Millisecond

// Backend reads and writes one JSON file. Writes go to a temp file in the
// same directory and are renamed into place while holding <path>.lock.
type Backend struct {
	path string
	lock *flock.Flock
}

// New returns a file backend for path. The parent directory is created on
// first Save.
func New(path string) (*Backend, error) {
	if path == "" {
		return nil, errors.New("file backend: path required")
	}
	return &Backend{path: path, lock: flock.New(path + ".lock")}, nil
}

func (b *Backend) Driver() storage.Driver { return storage.DriverFile }

// Path returns the data file location.
func (b *Backend) Path() string { return b.path }

func (b *Backend) Load(_ context.Context) ([]model.Product, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", b.path, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	products, err := storage.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.path, err)
	}
	return products, nil
}

func (b *Backend) Save(ctx context.Context, products []model.Product) error {
	data, err := storage.Encode(products)
	if err != nil {
		return err
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	locked, err := b.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", b.path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", b.path)
	}
	defer func() { _ = b.lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, ".products-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace %s: %w", b.path, err)
	}
	return nil
}

func (b *Backend) Close() error { return nil }
