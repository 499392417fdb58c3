// pkg/query/components.go
package query

import (
	"errors"
	"fmt"

	"github.com/hershd23/query-optimization/pkg/types"
)

// ErrQueryValidation covers every table, column and type mismatch detected
// while validating a decomposed query against the catalog.
var ErrQueryValidation = errors.New("query validation failed")

// ScalarFilter restricts one column of one table against a literal value.
type ScalarFilter struct {
	Table  string
	Column string
	Op     types.Op
	Value  types.Value
}

func (f ScalarFilter) String() string {
	return fmt.Sprintf("%s.%s %s %s", f.Table, f.Column, f.Op, f.Value)
}

// DynamicFilter compares two columns, possibly of different tables. Only
// equality is produced by the parser.
type DynamicFilter struct {
	LhsTable  string
	LhsColumn string
	Op        types.Op
	RhsTable  string
	RhsColumn string
}

func (f DynamicFilter) String() string {
	return fmt.Sprintf("%s.%s %s %s.%s", f.LhsTable, f.LhsColumn, f.Op, f.RhsTable, f.RhsColumn)
}

// Join is an equi-join between one column of each of two tables.
type Join struct {
	LhsTable  string
	LhsColumn string
	Op        types.Op
	RhsTable  string
	RhsColumn string
}

func (j Join) String() string {
	return fmt.Sprintf("%s.%s %s %s.%s", j.LhsTable, j.LhsColumn, j.Op, j.RhsTable, j.RhsColumn)
}

// QueryComponents is the decomposed form of a query: the referenced tables,
// scalar filters, column-to-column filters and equi-joins, each in input
// order.
type QueryComponents struct {
	Tables         []string
	ScalarFilters  []ScalarFilter
	DynamicFilters []DynamicFilter
	Joins          []Join
}
