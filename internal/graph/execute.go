package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// Request is the standard GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

// Executor runs requests against a fixed schema.
type Executor struct {
	schema graphql.Schema
}

// NewExecutor wraps a built schema.
func NewExecutor(schema graphql.Schema) *Executor {
	return &Executor{schema: schema}
}

// Execute runs one request. Parse, validation and resolver errors are all
// reported inside the result.
func (e *Executor) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// ErrOperationNotFound is returned by OperationType when the document has no
// operation with the requested name.
var ErrOperationNotFound = errors.New("operation not found")

// OperationType reports whether the selected operation of req is a query,
// mutation or subscription.
func OperationType(req Request) (string, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return "", fmt.Errorf("parse query: %w", err)
	}
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			ops = append(ops, op)
		}
	}
	for _, op := range ops {
		if req.OperationName == "" && len(ops) == 1 {
			return op.Operation, nil
		}
		if op.Name != nil && op.Name.Value == req.OperationName {
			return op.Operation, nil
		}
	}
	return "", ErrOperationNotFound
}
