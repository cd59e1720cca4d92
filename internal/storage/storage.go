// Package storage defines the durable backends that hold the product record set.
//
// Every backend stores the same flat shape: a JSON array of objects with the
// fields id, name, sku, warehouse, stock and demand. A set written by one
// backend can be exported and seeded into any other.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fairyhunter13/supplysight/internal/model"
)

// Driver names a backend implementation.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
	DriverRedis    Driver = "redis"
)

// ErrNotFound is returned by Load when the backend holds no record set yet.
var ErrNotFound = errors.New("storage: no product snapshot stored")

// Backend loads and saves the complete product record set.
type Backend interface {
	Driver() Driver
	// Load returns the stored records in their stored order.
	Load(ctx context.Context) ([]model.Product, error)
	// Save replaces the stored records. It must not return before the write
	// is durable as far as the backend can tell.
	Save(ctx context.Context, products []model.Product) error
	Close() error
}

// Encode renders records in the flat file layout (two-space indented array).
func Encode(products []model.Product) ([]byte, error) {
	if products == nil {
		products = []model.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	return data, nil
}

// Decode parses the flat layout. Unknown fields are ignored so files written by
// other tools stay readable.
func Decode(data []byte) ([]model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}
