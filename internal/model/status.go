package model

import (
	"fmt"
	"slices"
	"strings"
)

// Status is the derived health of a product record.
type Status string

const (
	StatusHealthy  Status = "HEALTHY"
	StatusLow      Status = "LOW"
	StatusCritical Status = "CRITICAL"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusHealthy, StatusLow, StatusCritical}

// Classify maps stock and demand to a status. Equality wins, so 0/0 is LOW.
func Classify(stock, demand int) Status {
	switch {
	case stock > demand:
		return StatusHealthy
	case stock == demand:
		return StatusLow
	default:
		return StatusCritical
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus converts a wire value into a Status. The empty string yields the
// empty Status, meaning "any".
func ParseStatus(v string) (Status, error) {
	if v == "" {
		return "", nil
	}
	s := Status(v)
	if !s.Valid() {
		names := make([]string, len(Statuses))
		for i, st := range Statuses {
			names[i] = string(st)
		}
		return "", fmt.Errorf("unknown status %q, expected one of %s", v, strings.Join(names, ", "))
	}
	return s, nil
}
