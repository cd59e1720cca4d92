package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/storage"
	"github.com/fairyhunter13/supplysight/internal/storage/memory"
)

func seed() []model.Product {
	return []model.Product{
		{ID: "P1", Name: "Bolt", SKU: "B-1", Warehouse: "A", Stock: 100, Demand: 80},
		{ID: "P2", Name: "Nut", SKU: "N-1", Warehouse: "A", Stock: 10, Demand: 10},
	}
}

func TestOpenLoadsSnapshot(t *testing.T) {
	st, err := Open(context.Background(), memory.NewWithProducts(seed()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	snap := st.All()
	if snap.Len() != 2 || snap.Revision() != 1 {
		t.Fatalf("unexpected snapshot len=%d rev=%d", snap.Len(), snap.Revision())
	}
	p, ok := snap.Get(model.Key{ID: "P2", Warehouse: "A"})
	if !ok || p.Name != "Nut" {
		t.Fatalf("get: %+v %v", p, ok)
	}
}

func TestOpenFailsWithoutData(t *testing.T) {
	_, err := Open(context.Background(), memory.New())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsInvalidRecords(t *testing.T) {
	bad := [][]model.Product{
		{{ID: "", Warehouse: "A"}},
		{{ID: "P1", Warehouse: ""}},
		{{ID: "P1", Warehouse: "A", Stock: -1}},
		{{ID: "P1", Warehouse: "A", Demand: -1}},
		{{ID: "P1", Warehouse: "A"}, {ID: "P1", Warehouse: "A"}},
	}
	over := model.MaxQuantity
	over++
	bad = append(bad,
		[]model.Product{{ID: "P1", Warehouse: "A", Stock: over}},
		[]model.Product{{ID: "P1", Warehouse: "A", Demand: over}},
	)
	for i, products := range bad {
		_, err := Open(context.Background(), memory.NewWithProducts(products))
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestUpdatePersistsThenPublishes(t *testing.T) {
	backend := memory.NewWithProducts(seed())
	st, _ := Open(context.Background(), backend)
	before := st.All()
	snap, err := st.Update(context.Background(), func(tx *Tx) error {
		p, _ := tx.Get(model.Key{ID: "P1", Warehouse: "A"})
		p.Demand = 5
		tx.Put(p)
		tx.Put(model.Product{ID: "P1", Name: "Bolt", SKU: "B-1", Warehouse: "B", Stock: 1, Demand: 5})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if snap.Revision() <= before.Revision() || snap != st.All() {
		t.Fatalf("snapshot not published")
	}
	if before.Len() != 2 {
		t.Fatalf("old snapshot mutated")
	}
	stored, _ := backend.Load(context.Background())
	if len(stored) != 3 || stored[0].Demand != 5 || stored[2].Warehouse != "B" {
		t.Fatalf("unexpected stored records %+v", stored)
	}
}

func TestUpdateErrorLeavesStateUntouched(t *testing.T) {
	backend := memory.NewWithProducts(seed())
	st, _ := Open(context.Background(), backend)
	boom := errors.New("boom")
	_, err := st.Update(context.Background(), func(tx *Tx) error {
		tx.Put(model.Product{ID: "P9", Warehouse: "Z"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if st.All().Len() != 2 || backend.Saves() != 0 {
		t.Fatalf("state changed after failed update")
	}
}

func TestUpdateWithoutChangesSkipsSave(t *testing.T) {
	backend := memory.NewWithProducts(seed())
	st, _ := Open(context.Background(), backend)
	rev := st.All().Revision()
	if _, err := st.Update(context.Background(), func(tx *Tx) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if backend.Saves() != 0 || st.All().Revision() != rev {
		t.Fatalf("expected no save")
	}
}

func TestPersistenceFailureKeepsMemory(t *testing.T) {
	backend := memory.NewWithProducts(seed())
	st, _ := Open(context.Background(), backend)
	backend.FailSaves(memory.ErrInjected)
	_, err := st.Update(context.Background(), func(tx *Tx) error {
		tx.Put(model.Product{ID: "P3", Warehouse: "A"})
		return nil
	})
	var pe *model.PersistenceError
	if !errors.As(err, &pe) || !errors.Is(err, memory.ErrInjected) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if st.All().Len() != 2 {
		t.Fatalf("memory diverged from backend")
	}
	if err := st.Persist(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError from Persist, got %v", err)
	}
}

func TestReplaceValidates(t *testing.T) {
	st, _ := Open(context.Background(), memory.NewWithProducts(seed()))
	_, err := st.Replace(context.Background(), []model.Product{{ID: "P1", Warehouse: "A", Stock: -3}})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	snap, err := st.Replace(context.Background(), []model.Product{{ID: "P7", Warehouse: "C", Stock: 3}})
	if err != nil || snap.Len() != 1 {
		t.Fatalf("replace: %v", err)
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	st, _ := Open(context.Background(), memory.NewWithProducts(seed()))
	key := model.Key{ID: "P1", Warehouse: "A"}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Update(context.Background(), func(tx *Tx) error {
				p, _ := tx.Get(key)
				p.Stock--
				tx.Put(p)
				return nil
			})
		}()
	}
	wg.Wait()
	got, _ := st.All().Get(key)
	if got.Stock != 0 {
		t.Fatalf("expected 0 after 100 serialized decrements, got %d", got.Stock)
	}
}

func TestTxWarehousesOf(t *testing.T) {
	st, _ := Open(context.Background(), memory.NewWithProducts(append(seed(),
		model.Product{ID: "P1", Warehouse: "0-first"})))
	_, _ = st.Update(context.Background(), func(tx *Tx) error {
		got := tx.WarehousesOf("P1")
		if len(got) != 2 || got[0] != "0-first" || got[1] != "A" {
			t.Errorf("unexpected warehouses %v", got)
		}
		if tx.WarehousesOf("nope") != nil {
			t.Errorf("expected nil for unknown id")
		}
		return nil
	})
}
