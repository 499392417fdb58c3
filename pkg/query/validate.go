// pkg/query/validate.go
package query

import (
	"fmt"

	"github.com/spakin/disjoint"

	"github.com/hershd23/query-optimization/pkg/schema"
)

// Validate checks the components against the catalog: every referenced table
// and column exists, scalar filter literals match their column's type, and
// both sides of each join and dynamic filter have equal types.
func (qc *QueryComponents) Validate(cat *schema.Catalog) error {
	for _, name := range qc.Tables {
		if !cat.HasTable(name) {
			return fmt.Errorf("%w: table not found: %s", ErrQueryValidation, name)
		}
	}

	for _, f := range qc.ScalarFilters {
		tbl, err := cat.GetTable(f.Table)
		if err != nil {
			return fmt.Errorf("%w: table in scalar filter not found: %s", ErrQueryValidation, f.Table)
		}
		typ, err := tbl.ColumnType(f.Column)
		if err != nil {
			return fmt.Errorf("%w: column not found in table %s: %s", ErrQueryValidation, f.Table, f.Column)
		}
		if typ != f.Value.Type() {
			return fmt.Errorf("%w: type mismatch in scalar filter for %s.%s: column is %s, literal is %s",
				ErrQueryValidation, f.Table, f.Column, typ, f.Value.Type())
		}
	}

	for _, j := range qc.Joins {
		if err := validateColumnPair(cat, "join condition", j.LhsTable, j.LhsColumn, j.RhsTable, j.RhsColumn); err != nil {
			return err
		}
	}
	for _, f := range qc.DynamicFilters {
		if err := validateColumnPair(cat, "dynamic filter", f.LhsTable, f.LhsColumn, f.RhsTable, f.RhsColumn); err != nil {
			return err
		}
	}

	return nil
}

func validateColumnPair(cat *schema.Catalog, what, lhsTable, lhsColumn, rhsTable, rhsColumn string) error {
	lhs, err := cat.GetTable(lhsTable)
	if err != nil {
		return fmt.Errorf("%w: table in %s not found: %s", ErrQueryValidation, what, lhsTable)
	}
	rhs, err := cat.GetTable(rhsTable)
	if err != nil {
		return fmt.Errorf("%w: table in %s not found: %s", ErrQueryValidation, what, rhsTable)
	}

	lhsType, err := lhs.ColumnType(lhsColumn)
	if err != nil {
		return fmt.Errorf("%w: column not found in %s between %s and %s: %s",
			ErrQueryValidation, what, lhsTable, rhsTable, lhsColumn)
	}
	rhsType, err := rhs.ColumnType(rhsColumn)
	if err != nil {
		return fmt.Errorf("%w: column not found in %s between %s and %s: %s",
			ErrQueryValidation, what, lhsTable, rhsTable, rhsColumn)
	}

	if lhsType != rhsType {
		return fmt.Errorf("%w: type mismatch in %s between %s.%s and %s.%s",
			ErrQueryValidation, what, lhsTable, lhsColumn, rhsTable, rhsColumn)
	}
	return nil
}

// Connected reports whether the join edges link every referenced table into
// one component. Queries without joins are trivially connected; the greedy
// planner degrades on disconnected graphs, so the planner runner warns when
// this is false.
func (qc *QueryComponents) Connected() bool {
	if len(qc.Joins) == 0 || len(qc.Tables) <= 1 {
		return true
	}

	elems := make(map[string]*disjoint.Element, len(qc.Tables))
	for _, name := range qc.Tables {
		elems[name] = disjoint.NewElement()
	}
	for _, j := range qc.Joins {
		lhs, lok := elems[j.LhsTable]
		rhs, rok := elems[j.RhsTable]
		if lok && rok {
			disjoint.Union(lhs, rhs)
		}
	}

	root := elems[qc.Tables[0]].Find()
	for _, name := range qc.Tables[1:] {
		if elems[name].Find() != root {
			return false
		}
	}
	return true
}
