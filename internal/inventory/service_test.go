package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/obs"
	"github.com/fairyhunter13/supplysight/internal/storage/memory"
	"github.com/fairyhunter13/supplysight/internal/store"
)

func newService(t *testing.T, products []model.Product) (*Service, *memory.Backend) {
	t.Helper()
	backend := memory.NewWithProducts(products)
	st, err := store.Open(context.Background(), backend)
	require.NoError(t, err)
	return NewService(st, NewKPISynthesizer(7, 365).WithClock(fixedClock), obs.NewMetrics()), backend
}

func lookup(t *testing.T, s *Service, id, wh string) (model.Product, bool) {
	t.Helper()
	return s.Store().All().Get(model.Key{ID: id, Warehouse: wh})
}

func totalStock(s *Service, id string) int {
	sum := 0
	for _, p := range s.Store().All().Products() {
		if p.ID == id {
			sum += p.Stock
		}
	}
	return sum
}

func TestTransferCreatesThenMergesDestination(t *testing.T) {
	svc, backend := newService(t, []model.Product{
		{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "A", Stock: 100, Demand: 80},
	})
	ctx := context.Background()

	src, err := svc.TransferStock(ctx, "P1", 30, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, model.Product{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "A", Stock: 70, Demand: 80}, src)
	assert.Equal(t, model.StatusCritical, src.Status())

	dst, ok := lookup(t, svc, "P1", "B")
	require.True(t, ok)
	assert.Equal(t, model.Product{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "B", Stock: 30, Demand: 80}, dst)

	_, err = svc.TransferStock(ctx, "P1", 20, "A", "B")
	require.NoError(t, err)
	a, _ := lookup(t, svc, "P1", "A")
	b, _ := lookup(t, svc, "P1", "B")
	assert.Equal(t, 50, a.Stock)
	assert.Equal(t, 50, b.Stock)
	assert.Equal(t, 2, svc.Store().All().Len())
	assert.Equal(t, 100, totalStock(svc, "P1"))
	assert.Equal(t, 2, backend.Saves())

	persisted, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, svc.Store().All().Products(), persisted)
}

func TestTransferKeepsDrainedSource(t *testing.T) {
	svc, _ := newService(t, catalog())
	src, err := svc.TransferStock(context.Background(), "P1", 180, "BLR-A", "PNQ-C")
	require.NoError(t, err)
	assert.Zero(t, src.Stock)
	_, ok := lookup(t, svc, "P1", "BLR-A")
	assert.True(t, ok)
}

func TestTransferRejections(t *testing.T) {
	cases := []struct {
		name     string
		id       string
		qty      int
		from, to string
		check    func(t *testing.T, err error)
	}{
		{"zero qty", "P1", 0, "BLR-A", "DEL-B", func(t *testing.T, err error) {
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "qty", ve.Field)
		}},
		{"negative qty", "P1", -3, "BLR-A", "DEL-B", func(t *testing.T, err error) {
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
		}},
		{"same warehouse", "P1", 1, "BLR-A", "BLR-A", func(t *testing.T, err error) {
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "to", ve.Field)
		}},
		{"empty id", "", 1, "BLR-A", "DEL-B", func(t *testing.T, err error) {
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "id", ve.Field)
		}},
		{"insufficient", "P1", 1000, "BLR-A", "DEL-B", func(t *testing.T, err error) {
			var ie *model.InsufficientStockError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, 180, ie.Available)
			assert.Equal(t, 1000, ie.Requested)
		}},
		{"stocked elsewhere", "P1", 5, "DEL-B", "PNQ-C", func(t *testing.T, err error) {
			var nf *model.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, []string{"BLR-A"}, nf.FoundIn)
			assert.Contains(t, nf.Error(), "BLR-A")
		}},
		{"unknown product", "P404", 5, "BLR-A", "DEL-B", func(t *testing.T, err error) {
			var nf *model.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Empty(t, nf.FoundIn)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, backend := newService(t, catalog())
			before := svc.Store().All()
			_, err := svc.TransferStock(context.Background(), tc.id, tc.qty, tc.from, tc.to)
			require.Error(t, err)
			tc.check(t, err)
			assert.Same(t, before, svc.Store().All())
			assert.Zero(t, backend.Saves())
		})
	}
}

func TestTransferPersistenceFailureLeavesMemory(t *testing.T) {
	svc, backend := newService(t, catalog())
	backend.FailSaves(memory.ErrInjected)
	before := svc.Store().All()

	_, err := svc.TransferStock(context.Background(), "P1", 10, "BLR-A", "DEL-B")
	var pe *model.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(err, memory.ErrInjected))
	assert.Same(t, before, svc.Store().All())
	_, ok := lookup(t, svc, "P1", "DEL-B")
	assert.False(t, ok)
}

func TestUpdateDemand(t *testing.T) {
	svc, backend := newService(t, catalog())
	ctx := context.Background()

	p, err := svc.UpdateDemand(ctx, "P3", "PNQ-C", 40)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Demand)
	assert.Equal(t, 80, p.Stock)
	assert.Equal(t, model.StatusHealthy, p.Status())
	assert.Equal(t, 1, backend.Saves())

	again, err := svc.UpdateDemand(ctx, "P3", "PNQ-C", 40)
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.Equal(t, 1, backend.Saves())
}

func TestUpdateDemandRejections(t *testing.T) {
	svc, backend := newService(t, catalog())
	ctx := context.Background()

	_, err := svc.UpdateDemand(ctx, "P1", "BLR-A", -5)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "demand", ve.Field)

	_, err = svc.UpdateDemand(ctx, "P1", "DEL-B", 5)
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"BLR-A"}, nf.FoundIn)

	_, err = svc.UpdateDemand(ctx, "P1", "", 5)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "warehouse", ve.Field)

	p, _ := lookup(t, svc, "P1", "BLR-A")
	assert.Equal(t, 120, p.Demand)
	assert.Zero(t, backend.Saves())
}

func TestTransferRejectsMergeOverflow(t *testing.T) {
	svc, backend := newService(t, []model.Product{
		{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "A", Stock: 2_000_000_000, Demand: 10},
		{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "B", Stock: 2_000_000_000, Demand: 10},
	})
	before := svc.Store().All()

	_, err := svc.TransferStock(context.Background(), "P1", 2_000_000_000, "A", "B")
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "qty", ve.Field)
	assert.Equal(t, model.CodeValidation, ve.Code())

	assert.Same(t, before, svc.Store().All())
	assert.Zero(t, backend.Saves())

	_, err = svc.TransferStock(context.Background(), "P1", 147_483_647, "A", "B")
	require.NoError(t, err)
	b, _ := lookup(t, svc, "P1", "B")
	assert.Equal(t, model.MaxQuantity, b.Stock)
}

func TestUpdateDemandRejectsAboveLimit(t *testing.T) {
	svc, backend := newService(t, catalog())
	over := model.MaxQuantity
	over++

	_, err := svc.UpdateDemand(context.Background(), "P1", "BLR-A", over)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "demand", ve.Field)
	assert.Zero(t, backend.Saves())

	p, err := svc.UpdateDemand(context.Background(), "P1", "BLR-A", model.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, model.MaxQuantity, p.Demand)
}

func TestConcurrentTransfersConserveStock(t *testing.T) {
	svc, _ := newService(t, []model.Product{
		{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "A", Stock: 500, Demand: 10},
		{ID: "P1", Name: "Hex Bolt", SKU: "HEX-8", Warehouse: "B", Stock: 500, Demand: 10},
	})
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.TransferStock(ctx, "P1", 7, "A", "B")
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.TransferStock(ctx, "P1", 3, "B", "A")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, totalStock(svc, "P1"))
	for _, p := range svc.Store().All().Products() {
		assert.GreaterOrEqual(t, p.Stock, 0)
	}
}

func TestServiceQueriesUseSnapshot(t *testing.T) {
	svc, _ := newService(t, catalog())
	ctx := context.Background()

	conn, err := svc.ListProducts(ctx, model.Filter{Status: model.StatusCritical, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, conn.TotalCount)
	assert.Equal(t, []string{"BLR-A", "DEL-B", "PNQ-C"}, svc.Warehouses(ctx))

	points, err := svc.KPIs(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, points, 7)
	_, err = svc.KPIs(ctx, 0)
	assert.Error(t, err)
}

func TestServiceRecordsMutationMetrics(t *testing.T) {
	svc, _ := newService(t, catalog())
	ctx := context.Background()
	_, err := svc.TransferStock(ctx, "P1", 1, "BLR-A", "DEL-B")
	require.NoError(t, err)
	_, err = svc.TransferStock(ctx, "P1", 1000, "BLR-A", "DEL-B")
	require.Error(t, err)

	assert.Equal(t, 1.0, mutationCount(t, svc.metrics, "transferStock", "ok"))
	assert.Equal(t, 1.0, mutationCount(t, svc.metrics, "transferStock", "INSUFFICIENT_STOCK"))
}

func mutationCount(t *testing.T, m *obs.Metrics, op, result string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "supplysight_mutations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["operation"] == op && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
