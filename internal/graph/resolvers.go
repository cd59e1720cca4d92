package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/fairyhunter13/supplysight/internal/inventory"
	"github.com/fairyhunter13/supplysight/internal/model"
)

type resolver struct {
	svc *inventory.Service
}

func (r *resolver) products(p graphql.ResolveParams) (interface{}, error) {
	f := model.Filter{
		Search:    stringArg(p.Args, "search"),
		Warehouse: stringArg(p.Args, "warehouse"),
		Page:      intArg(p.Args, "page", inventory.DefaultPage),
		PageSize:  intArg(p.Args, "pageSize", inventory.DefaultPageSize),
	}
	if s, ok := p.Args["status"].(model.Status); ok {
		f.Status = s
	}
	conn, err := r.svc.ListProducts(p.Context, f)
	if err != nil {
		return nil, wrapError(err)
	}
	return conn, nil
}

func (r *resolver) warehouses(p graphql.ResolveParams) (interface{}, error) {
	return r.svc.Warehouses(p.Context), nil
}

func (r *resolver) kpis(p graphql.ResolveParams) (interface{}, error) {
	points, err := r.svc.KPIs(p.Context, intArg(p.Args, "range", 0))
	if err != nil {
		return nil, wrapError(err)
	}
	return points, nil
}

func (r *resolver) updateDemand(p graphql.ResolveParams) (interface{}, error) {
	prod, err := r.svc.UpdateDemand(p.Context,
		stringArg(p.Args, "id"), stringArg(p.Args, "warehouse"), intArg(p.Args, "demand", 0))
	if err != nil {
		return nil, wrapError(err)
	}
	return prod, nil
}

func (r *resolver) transferStock(p graphql.ResolveParams) (interface{}, error) {
	prod, err := r.svc.TransferStock(p.Context,
		stringArg(p.Args, "id"), intArg(p.Args, "qty", 0), stringArg(p.Args, "from"), stringArg(p.Args, "to"))
	if err != nil {
		return nil, wrapError(err)
	}
	return prod, nil
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// intArg reads an Int argument; an explicit null falls back to def.
func intArg(args map[string]interface{}, name string, def int) int {
	if v, ok := args[name].(int); ok {
		return v
	}
	return def
}
