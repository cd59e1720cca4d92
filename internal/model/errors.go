package model

import (
	"fmt"
	"strings"
)

// ErrorCode is the stable machine-readable class of a request error.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodePersistence       ErrorCode = "PERSISTENCE_ERROR"
	CodeOutOfRange        ErrorCode = "VALUE_OUT_OF_RANGE"
)

// ValidationError rejects malformed input before any state is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Code() ErrorCode { return CodeValidation }

// NotFoundError reports a missing (id, warehouse) record. FoundIn lists the
// warehouses that do hold the id, so a caller can correct the request.
type NotFoundError struct {
	ID        string
	Warehouse string
	FoundIn   []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("product %s not found in warehouse %s", e.ID, e.Warehouse)
	if len(e.FoundIn) > 0 {
		msg += fmt.Sprintf("; it is stocked in %s", strings.Join(e.FoundIn, ", "))
	}
	return msg
}

func (e *NotFoundError) Code() ErrorCode { return CodeNotFound }

// InsufficientStockError rejects a transfer larger than the source stock.
type InsufficientStockError struct {
	ID        string
	Warehouse string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s in warehouse %s: available %d, requested %d",
		e.ID, e.Warehouse, e.Available, e.Requested)
}

func (e *InsufficientStockError) Code() ErrorCode { return CodeInsufficientStock }

// PersistenceError means the durable write failed; the in-memory state was
// not changed.
type PersistenceError struct {
	Driver string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist products (%s): %v", e.Driver, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Code() ErrorCode { return CodePersistence }

// OutOfRangeError reports a derived value, such as a KPI total, that does not
// fit in the range clients can receive.
type OutOfRangeError struct {
	Field string
	Value int64
	Limit int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: value %d exceeds the maximum of %d", e.Field, e.Value, e.Limit)
}

func (e *OutOfRangeError) Code() ErrorCode { return CodeOutOfRange }

// Coded is implemented by every error in this file.
type Coded interface {
	error
	Code() ErrorCode
}
