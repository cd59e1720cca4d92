// Package store owns the authoritative in-memory product record set and its
// round trip to the durable backend.
//
// Readers get the last published Snapshot without locking. Writers go through
// Update, which holds a single global mutex across read, modify, persist and
// publish, so mutations never interleave and the published snapshot always
// matches what the backend last accepted.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
)

// Snapshot is an immutable view of the record set at one revision.
type Snapshot struct {
	revision uint64
	products []model.Product
	index    map[model.Key]int
}

func newSnapshot(rev uint64, products []model.Product) *Snapshot {
	return &Snapshot{revision: rev, products: products, index: buildIndex(products)}
}

// Revision identifies the snapshot; later snapshots have larger revisions.
func (s *Snapshot) Revision() uint64 { return s.revision }

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.products) }

// Products returns a copy of the records in stored order.
func (s *Snapshot) Products() []model.Product {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get looks up one record.
func (s *Snapshot) Get(key model.Key) (model.Product, bool) {
	i, ok := s.index[key]
	if !ok {
		return model.Product{}, false
	}
	return s.products[i], true
}

// Store is the single-writer container for product records.
type Store struct {
	backend storage.Backend
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	revs    atomic.Uint64 // last issued snapshot revision
}

// Open loads the record set from backend. Any read, decode or validation
// failure is returned; callers treat it as fatal.
func Open(ctx context.Context, backend storage.Backend) (*Store, error) {
	products, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products from %s: %w", backend.Driver(), err)
	}
	if err := Validate(products); err != nil {
		return nil, fmt.Errorf("load products from %s: %w", backend.Driver(), err)
	}
	s := &Store{backend: backend}
	s.current.Store(newSnapshot(s.revs.Add(1), cloneProducts(products)))
	return s, nil
}

// All returns the last published snapshot.
func (s *Store) All() *Snapshot { return s.current.Load() }

// Driver names the backend behind the store.
func (s *Store) Driver() storage.Driver { return s.backend.Driver() }

// Replace validates products, persists them and publishes them as the new
// snapshot. Nothing is published when persisting fails.
func (s *Store) Replace(ctx context.Context, products []model.Product) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(ctx, cloneProducts(products))
}

// Persist writes the current snapshot to the backend again.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(ctx, s.current.Load().products); err != nil {
		return &model.PersistenceError{Driver: string(s.backend.Driver()), Err: err}
	}
	return nil
}

// Update runs fn against a private copy of the records. When fn succeeds and
// changed something, the copy is persisted and published. An error from fn
// leaves both memory and the backend untouched.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current.Load()
	tx := newTx(cur)
	if err := fn(tx); err != nil {
		return cur, err
	}
	if !tx.dirty {
		return cur, nil
	}
	return s.replaceLocked(ctx, tx.products)
}

func (s *Store) replaceLocked(ctx context.Context, products []model.Product) (*Snapshot, error) {
	if err := Validate(products); err != nil {
		return s.current.Load(), err
	}
	if err := s.backend.Save(ctx, products); err != nil {
		return s.current.Load(), &model.PersistenceError{Driver: string(s.backend.Driver()), Err: err}
	}
	next := newSnapshot(s.revs.Add(1), products)
	s.current.Store(next)
	return next, nil
}

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Validate checks the record rules: non-empty identity, counts within
// [0, model.MaxQuantity] and unique (id, warehouse) pairs.
func Validate(products []model.Product) error {
	seen := make(map[model.Key]struct{}, len(products))
	for i, p := range products {
		switch {
		case p.ID == "":
			return &model.ValidationError{Field: fmt.Sprintf("products[%d].id", i), Message: "must not be empty"}
		case p.Warehouse == "":
			return &model.ValidationError{Field: fmt.Sprintf("products[%d].warehouse", i), Message: "must not be empty"}
		case p.Stock < 0:
			return &model.ValidationError{Field: fmt.Sprintf("products[%d].stock", i), Message: "must not be negative"}
		case p.Demand < 0:
			return &model.ValidationError{Field: fmt.Sprintf("products[%d].demand", i), Message: "must not be negative"}
		case p.Stock > model.MaxQuantity:
			return &model.ValidationError{Field: fmt.Sprintf("products[%d].stock", i), Message: fmt.Sprintf("must not exceed %d", model.MaxQuantity)}
		case p.Demand > model.MaxQuantity:
			return &model.ValidationError{Field: fmt.Sprintf("products[%d].demand", i), Message: fmt.Sprintf("must not exceed %d", model.MaxQuantity)}
		}
		k := p.Key()
		if _, dup := seen[k]; dup {
			return &model.ValidationError{
				Field:   fmt.Sprintf("products[%d]", i),
				Message: fmt.Sprintf("duplicate record for product %s in warehouse %s", p.ID, p.Warehouse),
			}
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Tx is the mutable working copy handed to Update callbacks.
type Tx struct {
	products []model.Product
	index    map[model.Key]int
	dirty    bool
}

func newTx(s *Snapshot) *Tx {
	products := cloneProducts(s.products)
	return &Tx{products: products, index: buildIndex(products)}
}

// Get looks up one record in the working copy.
func (tx *Tx) Get(key model.Key) (model.Product, bool) {
	i, ok := tx.index[key]
	if !ok {
		return model.Product{}, false
	}
	return tx.products[i], true
}

// Put replaces the record with the same key, or appends a new one.
func (tx *Tx) Put(p model.Product) {
	tx.dirty = true
	if i, ok := tx.index[p.Key()]; ok {
		tx.products[i] = p
		return
	}
	tx.index[p.Key()] = len(tx.products)
	tx.products = append(tx.products, p)
}

// WarehousesOf returns the sorted warehouses holding a record for id.
func (tx *Tx) WarehousesOf(id string) []string {
	var out []string
	for _, p := range tx.products {
		if p.ID == id {
			out = append(out, p.Warehouse)
		}
	}
	sort.Strings(out)
	return out
}

func buildIndex(products []model.Product) map[model.Key]int {
	idx := make(map[model.Key]int, len(products))
	for i, p := range products {
		idx[p.Key()] = i
	}
	return idx
}

func cloneProducts(in []model.Product) []model.Product {
	out := make([]model.Product, len(in))
	copy(out, in)
	return out
}
