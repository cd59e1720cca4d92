// Package memory is a volatile backend used by tests and the memory driver.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
)

// Backend keeps the last saved record set in memory.
type Backend struct {
	mu       sync.Mutex
	products []model.Product
	stored   bool
	saves    int
	failWith error
}

// New returns an empty backend; Load reports storage.ErrNotFound until the
// first Save.
func New() *Backend { return &Backend{} }

// NewWithProducts returns a backend that already holds products.
func NewWithProducts(products []model.Product) *Backend {
	return &Backend{products: clone(products), stored: true}
}

func (b *Backend) Driver() storage.Driver { return storage.DriverMemory }

func (b *Backend) Load(_ context.Context) ([]model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stored {
		return nil, storage.ErrNotFound
	}
	return clone(b.products), nil
}

func (b *Backend) Save(_ context.Context, products []model.Product) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return b.failWith
	}
	b.products = clone(products)
	b.stored = true
	b.saves++
	return nil
}

func (b *Backend) Close() error { return nil }

// Saves reports how many successful Save calls happened.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// FailSaves makes every subsequent Save return err; nil restores normal behaviour.
func (b *Backend) FailSaves(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith = err
}

// ErrInjected is a convenience error for FailSaves.
var ErrInjected = errors.New("memory backend: injected save failure")

func clone(in []model.Product) []model.Product {
	out := make([]model.Product, len(in))
	copy(out, in)
	return out
}
