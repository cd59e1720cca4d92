package inventory

import (
	"fmt"

	"github.com/fairyhunter13/supplysight/internal/model"
	"github.com/fairyhunter13/supplysight/internal/store"
)

func applyDemand(tx *store.Tx, in updateDemandInput) (model.Product, error) {
	p, ok := tx.Get(model.Key{ID: in.ID, Warehouse: in.Warehouse})
	if !ok {
		return model.Product{}, &model.NotFoundError{ID: in.ID, Warehouse: in.Warehouse, FoundIn: tx.WarehousesOf(in.ID)}
	}
	if p.Demand == in.Demand {
		return p, nil
	}
	p.Demand = in.Demand
	tx.Put(p)
	return p, nil
}

// applyTransfer decrements the source, then merges into or creates the
// destination. The source record stays even when its stock reaches zero; a
// new destination copies name, sku and demand from the source.
func applyTransfer(tx *store.Tx, in transferInput) (model.Product, error) {
	src, ok := tx.Get(model.Key{ID: in.ID, Warehouse: in.From})
	if !ok {
		return model.Product{}, &model.NotFoundError{ID: in.ID, Warehouse: in.From, FoundIn: tx.WarehousesOf(in.ID)}
	}
	if src.Stock < in.Qty {
		return model.Product{}, &model.InsufficientStockError{
			ID: in.ID, Warehouse: in.From, Available: src.Stock, Requested: in.Qty,
		}
	}
	src.Stock -= in.Qty
	tx.Put(src)

	if dst, ok := tx.Get(model.Key{ID: in.ID, Warehouse: in.To}); ok {
		if dst.Stock > model.MaxQuantity-in.Qty {
			return model.Product{}, &model.ValidationError{
				Field:   "qty",
				Message: fmt.Sprintf("would raise stock of product %s in warehouse %s above %d", in.ID, in.To, model.MaxQuantity),
			}
		}
		dst.Stock += in.Qty
		tx.Put(dst)
	} else {
		dst := src
		dst.Warehouse = in.To
		dst.Stock = in.Qty
		tx.Put(dst)
	}
	return src, nil
}
