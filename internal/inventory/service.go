// Package inventory implements the read and write operations of the
// inventory dashboard: filtered product listing, warehouse discovery, KPI
// trends, demand updates and stock transfers between warehouses.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/obs"
	"github.com/fairyhunter13/supplysight/internal/store"
)

// Service answers queries from the current snapshot and applies mutations
// through the store's single-writer Update.
type Service struct {
	store   *store.Store
	kpis    *KPISynthesizer
	metrics *obs.Metrics
}

// NewService wires a service. metrics may be nil.
func NewService(st *store.Store, kpis *KPISynthesizer, metrics *obs.Metrics) *Service {
	return &Service{store: st, kpis: kpis, metrics: metrics}
}

// Store exposes the underlying store.
func (s *Service) Store() *store.Store { return s.store }

// ListProducts filters and pages the current snapshot.
func (s *Service) ListProducts(_ context.Context, f model.Filter) (model.Connection, error) {
	start := time.Now()
	obs.Logger.Debug("products_query", "search", f.Search, "warehouse", f.Warehouse, "status", string(f.Status),
		"page", f.Page, "page_size", f.PageSize)
	snap := s.store.All()
	conn, err := Query(snap.Products(), f)
	s.metrics.ObserveOperation("products", err == nil, time.Since(start))
	if err != nil {
		return model.Connection{}, err
	}
	obs.Logger.Debug("products_result", "total", conn.TotalCount, "returned", len(conn.Products),
		"page", conn.CurrentPage, "total_pages", conn.TotalPages, "revision", snap.Revision())
	return conn, nil
}

// Warehouses lists the distinct warehouses of the current snapshot.
func (s *Service) Warehouses(_ context.Context) []string {
	out := Warehouses(s.store.All().Products())
	obs.Logger.Debug("warehouses_result", "count", len(out))
	return out
}

// KPIs synthesizes the trend for the trailing rangeDays days.
func (s *Service) KPIs(_ context.Context, rangeDays int) ([]model.KPIPoint, error) {
	start := time.Now()
	points, err := s.kpis.Series(s.store.All().Products(), rangeDays)
	s.metrics.ObserveOperation("kpis", err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}
	obs.Logger.Debug("kpis_result", "count", len(points), "range", rangeDays)
	return points, nil
}

// UpdateDemand sets the demand of one (id, warehouse) record. Repeating the
// call with the same value returns the same record without rewriting storage.
func (s *Service) UpdateDemand(ctx context.Context, id, warehouse string, demand int) (model.Product, error) {
	const op = "updateDemand"
	start := time.Now()
	in := updateDemandInput{ID: id, Warehouse: warehouse, Demand: demand}
	var updated model.Product
	err := validateInput(in)
	if err == nil {
		_, err = s.store.Update(ctx, func(tx *store.Tx) error {
			var applyErr error
			updated, applyErr = applyDemand(tx, in)
			return applyErr
		})
	}
	s.finish(op, start, err, "id", id, "warehouse", warehouse, "demand", demand)
	if err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// TransferStock moves qty units of id from one warehouse to another and
// returns the updated source record.
func (s *Service) TransferStock(ctx context.Context, id string, qty int, from, to string) (model.Product, error) {
	const op = "transferStock"
	start := time.Now()
	in := transferInput{ID: id, Qty: qty, From: from, To: to}
	var source model.Product
	err := validateInput(in)
	if err == nil {
		_, err = s.store.Update(ctx, func(tx *store.Tx) error {
			var applyErr error
			source, applyErr = applyTransfer(tx, in)
			return applyErr
		})
	}
	s.finish(op, start, err, "id", id, "qty", qty, "from", from, "to", to)
	if err != nil {
		return model.Product{}, err
	}
	return source, nil
}

func (s *Service) finish(op string, start time.Time, err error, attrs ...any) {
	elapsed := time.Since(start)
	s.metrics.ObserveOperation(op, err == nil, elapsed)
	attrs = append(attrs, "operation", op, "latency_ms", float64(elapsed.Microseconds())/1000.0)
	if err == nil {
		s.metrics.ObserveMutation(op, "ok")
		obs.Logger.Info("mutation_applied", append(attrs, "revision", s.store.All().Revision())...)
		return
	}
	code := "INTERNAL"
	var coded model.Coded
	if errors.As(err, &coded) {
		code = string(coded.Code())
	}
	s.metrics.ObserveMutation(op, code)
	attrs = append(attrs, "code", code, "error", err.Error())
	if code == string(model.CodePersistence) || code == "INTERNAL" {
		obs.Logger.Error("mutation_failed", attrs...)
		return
	}
	obs.Logger.Warn("mutation_rejected", attrs...)
}
