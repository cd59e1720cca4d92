// Package model defines domain types used by the service.
package model

import "math"

// Product is one product-at-a-warehouse record. The pair (ID, Warehouse) is its
// identity; the same ID may appear under several warehouses with independent
// stock and demand.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Warehouse string `json:"warehouse"`
	Stock     int    `json:"stock"`
	Demand    int    `json:"demand"`
}

// MaxQuantity is the largest stock or demand a record may hold, and the
// largest KPI total that can be reported. It is the GraphQL Int range.
const MaxQuantity = math.MaxInt32

// Key returns the warehouse-scoped identity of the record.
func (p Product) Key() Key { return Key{ID: p.ID, Warehouse: p.Warehouse} }

// Status derives the health status of the record.
func (p Product) Status() Status { return Classify(p.Stock, p.Demand) }

// Key identifies a product record within a warehouse.
type Key struct {
	ID        string
	Warehouse string
}

// KPIPoint is one day of aggregate stock and demand.
type KPIPoint struct {
	Date   string `json:"date"`
	Stock  int    `json:"stock"`
	Demand int    `json:"demand"`
}

// Filter selects and pages product records.
type Filter struct {
	Search    string
	Warehouse string
	Status    Status
	Page      int
	PageSize  int
}

// Connection is a page of product records plus paging metadata.
type Connection struct {
	Products        []Product `json:"products"`
	TotalCount      int       `json:"totalCount"`
	CurrentPage     int       `json:"currentPage"`
	TotalPages      int       `json:"totalPages"`
	HasNextPage     bool      `json:"hasNextPage"`
	HasPreviousPage bool      `json:"hasPreviousPage"`
}
