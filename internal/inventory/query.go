package inventory

import (
	"sort"
	"strings"

	"github.com/fairyhunter13/supplysight/internal/model"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Query filters products and returns the requested page. Filters are ANDed
// and applied before paging, so TotalCount is the filtered size. A page past
// the end yields no products. An empty result has zero pages.
func Query(products []model.Product, f model.Filter) (model.Connection, error) {
	if err := validateInput(listInput{Page: f.Page, PageSize: f.PageSize}); err != nil {
		return model.Connection{}, err
	}
	status, err := model.ParseStatus(string(f.Status))
	if err != nil {
		return model.Connection{}, &model.ValidationError{Field: "status", Message: err.Error()}
	}
	search := strings.ToLower(f.Search)
	matched := make([]model.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if f.Warehouse != "" && p.Warehouse != f.Warehouse {
			continue
		}
		if status != "" && p.Status() != status {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)
	totalPages := (total + f.PageSize - 1) / f.PageSize
	start := (f.Page - 1) * f.PageSize
	page := []model.Product{}
	if start < total {
		end := min(start+f.PageSize, total)
		page = matched[start:end]
	}
	return model.Connection{
		Products:        page,
		TotalCount:      total,
		CurrentPage:     f.Page,
		TotalPages:      totalPages,
		HasNextPage:     f.Page < totalPages,
		HasPreviousPage: f.Page > 1,
	}, nil
}

func matchesSearch(p model.Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.ID), lowered) ||
		strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.SKU), lowered)
}

// Warehouses returns the distinct warehouses in ascending order.
func Warehouses(products []model.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if _, ok := seen[p.Warehouse]; ok {
			continue
		}
		seen[p.Warehouse] = struct{}{}
		out = append(out, p.Warehouse)
	}
	sort.Strings(out)
	return out
}
