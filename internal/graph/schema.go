// Package graph exposes the inventory service as a GraphQL schema.
package graph

import (
	_ "embed"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/fairyhunter13/supplysight/internal/inventory"
	"github.com/fairyhunter13/supplysight/internal/model"
)

// SDL is the schema in GraphQL schema language, served to tooling.
//
//go:embed schema.graphql
var SDL []byte

var statusEnum = newStatusEnum()

func newStatusEnum() *graphql.Enum {
	values := graphql.EnumValueConfigMap{}
	for _, s := range model.Statuses {
		values[string(s)] = &graphql.EnumValueConfig{Value: s}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: "Status", Values: values})
}

func productField(t graphql.Output, get func(model.Product) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(t),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			prod, ok := p.Source.(model.Product)
			if !ok {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			return get(prod), nil
		},
	}
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":        productField(graphql.ID, func(p model.Product) interface{} { return p.ID }),
		"name":      productField(graphql.String, func(p model.Product) interface{} { return p.Name }),
		"sku":       productField(graphql.String, func(p model.Product) interface{} { return p.SKU }),
		"warehouse": productField(graphql.String, func(p model.Product) interface{} { return p.Warehouse }),
		"stock":     productField(graphql.Int, func(p model.Product) interface{} { return p.Stock }),
		"demand":    productField(graphql.Int, func(p model.Product) interface{} { return p.Demand }),
		"status":    productField(statusEnum, func(p model.Product) interface{} { return p.Status() }),
	},
})

func kpiField(t graphql.Output, get func(model.KPIPoint) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(t),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			point, ok := p.Source.(model.KPIPoint)
			if !ok {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			return get(point), nil
		},
	}
}

var kpiType = graphql.NewObject(graphql.ObjectConfig{
	Name: "KPI",
	Fields: graphql.Fields{
		"date":   kpiField(graphql.String, func(k model.KPIPoint) interface{} { return k.Date }),
		"stock":  kpiField(graphql.Int, func(k model.KPIPoint) interface{} { return k.Stock }),
		"demand": kpiField(graphql.Int, func(k model.KPIPoint) interface{} { return k.Demand }),
	},
})

func connField(t graphql.Output, get func(model.Connection) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(t),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			c, ok := p.Source.(model.Connection)
			if !ok {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			return get(c), nil
		},
	}
}

var connectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductConnection",
	Fields: graphql.Fields{
		"products":        connField(graphql.NewList(graphql.NewNonNull(productType)), func(c model.Connection) interface{} { return c.Products }),
		"totalCount":      connField(graphql.Int, func(c model.Connection) interface{} { return c.TotalCount }),
		"hasNextPage":     connField(graphql.Boolean, func(c model.Connection) interface{} { return c.HasNextPage }),
		"hasPreviousPage": connField(graphql.Boolean, func(c model.Connection) interface{} { return c.HasPreviousPage }),
		"currentPage":     connField(graphql.Int, func(c model.Connection) interface{} { return c.CurrentPage }),
		"totalPages":      connField(graphql.Int, func(c model.Connection) interface{} { return c.TotalPages }),
	},
})

// NewSchema builds the executable schema backed by svc.
func NewSchema(svc *inventory.Service) (graphql.Schema, error) {
	r := &resolver{svc: svc}
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(connectionType),
				Args: graphql.FieldConfigArgument{
					"search":    &graphql.ArgumentConfig{Type: graphql.String},
					"warehouse": &graphql.ArgumentConfig{Type: graphql.String},
					"status":    &graphql.ArgumentConfig{Type: statusEnum},
					"page":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: inventory.DefaultPage},
					"pageSize":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: inventory.DefaultPageSize},
				},
				Resolve: r.products,
			},
			"warehouses": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: r.warehouses,
			},
			"kpis": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(kpiType))),
				Args: graphql.FieldConfigArgument{
					"range": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.kpis,
			},
		},
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"updateDemand": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"warehouse": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"demand":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.updateDemand,
			},
			"transferStock": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"qty":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.transferStock,
			},
		},
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
