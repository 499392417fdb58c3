// pkg/executor/executor.go
package executor

import (
	"fmt"

	"github.com/hershd23/query-optimization/pkg/planner"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// Executor realizes a planner's step list against the catalog. It keeps a
// working map from each referenced table name to its current table: a filter
// replaces its table's entry, a join rebinds both participants to the joined
// result. Catalog entries are never mutated.
type Executor struct {
	cat      *schema.Catalog
	tableMap map[string]*schema.Table
}

// New creates an executor over the catalog.
func New(cat *schema.Catalog) *Executor {
	return &Executor{cat: cat}
}

// ExecutePlan runs a generated plan and returns its result table. A nil plan
// means the strategy never generated one.
func (e *Executor) ExecutePlan(plan *planner.Plan) (*schema.Table, error) {
	if plan == nil {
		return nil, planner.ErrPlanNotReady
	}
	return e.ExecuteSteps(plan.Steps)
}

// ExecuteSteps applies the steps in order and returns the last-written
// working table, or nil for an empty step list.
func (e *Executor) ExecuteSteps(steps []planner.Step) (*schema.Table, error) {
	e.tableMap = make(map[string]*schema.Table)

	// First pass: resolve every referenced base table from the catalog.
	for _, step := range steps {
		switch s := step.(type) {
		case planner.FilterStep:
			if err := e.resolve(s.Filter.Table); err != nil {
				return nil, err
			}
		case planner.JoinStep:
			if err := e.resolve(s.Join.LhsTable); err != nil {
				return nil, err
			}
			if err := e.resolve(s.Join.RhsTable); err != nil {
				return nil, err
			}
		}
	}

	// Second pass: apply the steps against the working map.
	lastWritten := ""
	for _, step := range steps {
		switch s := step.(type) {
		case planner.FilterStep:
			f := s.Filter
			filtered, err := NewFilter(NewScan(e.tableMap[f.Table]), f.Table, f.Column, f.Op, f.Value).Execute()
			if err != nil {
				return nil, err
			}
			e.tableMap[f.Table] = filtered
			lastWritten = f.Table

		case planner.JoinStep:
			j := s.Join
			joined, err := NewNestedLoopJoin(
				NewScan(e.tableMap[j.LhsTable]), NewScan(e.tableMap[j.RhsTable]),
				j.LhsTable, j.LhsColumn, j.RhsTable, j.RhsColumn,
			).Execute()
			if err != nil {
				return nil, err
			}
			e.tableMap[j.LhsTable] = joined
			e.tableMap[j.RhsTable] = joined
			lastWritten = j.LhsTable

		default:
			return nil, fmt.Errorf("unsupported plan step type %T", step)
		}
	}

	if lastWritten == "" {
		return nil, nil
	}
	return e.tableMap[lastWritten], nil
}

// resolve loads a base table into the working map on first reference.
func (e *Executor) resolve(name string) error {
	if _, ok := e.tableMap[name]; ok {
		return nil
	}
	tbl, err := e.cat.GetTable(name)
	if err != nil {
		return err
	}
	e.tableMap[name] = tbl
	return nil
}
