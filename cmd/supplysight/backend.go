package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairyhunter13/supplysight/internal/config"
	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/obs"
	"github.com/fairyhunter13/supplysight/internal/storage"
	"github.com/fairyhunter13/supplysight/internal/storage/factory"
	"github.com/fairyhunter13/supplysight/internal/storage/file"
	"github.com/fairyhunter13/supplysight/internal/store"
)

// openBackend opens the configured backend. The memory driver starts from
// the records at DATA_PATH since it has nothing of its own to load.
func openBackend(ctx context.Context, c config.Config) (storage.Backend, error) {
	backend, err := factory.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", c.DataDriver, err)
	}
	if backend.Driver() != storage.DriverMemory {
		return backend, nil
	}
	products, err := readSeedFile(ctx, c.DataPath)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	if err := backend.Save(ctx, products); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("prime memory backend: %w", err)
	}
	obs.Logger.Info("memory_backend_primed", "path", c.DataPath, "records", len(products))
	return backend, nil
}

// openStore loads the record set. A backend without data is reported with a
// hint to run the seed command.
func openStore(ctx context.Context, c config.Config) (*store.Store, error) {
	backend, err := openBackend(ctx, c)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w (run `supplysight seed --from <file>` first)", err)
		}
		return nil, err
	}
	return st, nil
}

func readSeedFile(ctx context.Context, path string) ([]model.Product, error) {
	src, err := file.New(path)
	if err != nil {
		return nil, err
	}
	products, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Validate(products); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return products, nil
}
