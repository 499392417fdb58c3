// pkg/executor/operators.go
package executor

import (
	"fmt"

	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

// Operator is a node in a physical operator tree. Execution is eager and
// bottom-up: every operator fully materializes its output table. Derived
// tables own their rows; nothing aliases the catalog's storage.
type Operator interface {
	Execute() (*schema.Table, error)
}

// Scan produces a base table as-is.
type Scan struct {
	Table *schema.Table
}

// NewScan creates a scan over a resolved catalog table.
func NewScan(table *schema.Table) *Scan {
	return &Scan{Table: table}
}

// Execute returns the scanned table by reference. Downstream operators copy
// before mutating, so sharing is safe.
func (s *Scan) Execute() (*schema.Table, error) {
	return s.Table, nil
}

// Filter keeps the child's rows satisfying "column op value". The column is
// addressed by name and owning base table, since post-join inputs can carry
// the same column name from several tables.
type Filter struct {
	Child     Operator
	BaseTable string
	Column    string
	Op        types.Op
	Value     types.Value
}

// NewFilter creates a filter operator.
func NewFilter(child Operator, baseTable, column string, op types.Op, value types.Value) *Filter {
	return &Filter{Child: child, BaseTable: baseTable, Column: column, Op: op, Value: value}
}

// Execute materializes the filtered table and recomputes its integer
// histograms so later selectivity probes see the narrowed distribution.
func (f *Filter) Execute() (*schema.Table, error) {
	input, err := f.Child.Execute()
	if err != nil {
		return nil, err
	}

	colIdx, err := input.ColumnIndex(f.Column, f.BaseTable)
	if err != nil {
		return nil, err
	}

	output := input.CloneSchema(input.Name + "_filtered")
	for _, row := range input.Rows {
		matches, err := row[colIdx].Compare(f.Op, f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %s.%s: %w", f.BaseTable, f.Column, err)
		}
		if matches {
			dup := make([]types.Value, len(row))
			copy(dup, row)
			output.Rows = append(output.Rows, dup)
		}
	}

	output.RecomputeIntegerHistograms()
	return output, nil
}

// NestedLoopJoin materializes the equi-join of its children: every matching
// row pair is concatenated, left columns first. The join column is kept on
// both sides.
type NestedLoopJoin struct {
	Left           Operator
	Right          Operator
	LeftBaseTable  string
	LeftColumn     string
	RightBaseTable string
	RightColumn    string
}

// NewNestedLoopJoin creates a nested-loop equi-join operator.
func NewNestedLoopJoin(left, right Operator, leftBaseTable, leftColumn, rightBaseTable, rightColumn string) *NestedLoopJoin {
	return &NestedLoopJoin{
		Left:           left,
		Right:          right,
		LeftBaseTable:  leftBaseTable,
		LeftColumn:     leftColumn,
		RightBaseTable: rightBaseTable,
		RightColumn:    rightColumn,
	}
}

// Execute runs both children and joins them left-major, right-minor.
func (j *NestedLoopJoin) Execute() (*schema.Table, error) {
	left, err := j.Left.Execute()
	if err != nil {
		return nil, err
	}
	right, err := j.Right.Execute()
	if err != nil {
		return nil, err
	}

	leftIdx, err := left.ColumnIndex(j.LeftColumn, j.LeftBaseTable)
	if err != nil {
		return nil, err
	}
	rightIdx, err := right.ColumnIndex(j.RightColumn, j.RightBaseTable)
	if err != nil {
		return nil, err
	}

	output := schema.NewTable(left.Name + "_" + right.Name + "_joined")
	for i := range left.Columns {
		output.Columns = append(output.Columns, left.Columns[i].Clone())
	}
	for i := range right.Columns {
		output.Columns = append(output.Columns, right.Columns[i].Clone())
	}

	for _, leftRow := range left.Rows {
		for _, rightRow := range right.Rows {
			matches, err := leftRow[leftIdx].Compare(types.OpEquals, rightRow[rightIdx])
			if err != nil {
				return nil, fmt.Errorf("join %s.%s = %s.%s: %w",
					j.LeftBaseTable, j.LeftColumn, j.RightBaseTable, j.RightColumn, err)
			}
			if !matches {
				continue
			}

			joined := make([]types.Value, 0, len(leftRow)+len(rightRow))
			joined = append(joined, leftRow...)
			joined = append(joined, rightRow...)
			output.Rows = append(output.Rows, joined)
		}
	}

	output.RecomputeIntegerHistograms()
	return output, nil
}

// ColumnRef names a projected column by owning base table and column name.
type ColumnRef struct {
	Table  string
	Column string
}

// Project keeps the requested columns. Output columns appear in the child's
// column order, not the requested order.
type Project struct {
	Child   Operator
	Columns []ColumnRef
}

// NewProject creates a projection operator.
func NewProject(child Operator, columns []ColumnRef) *Project {
	return &Project{Child: child, Columns: columns}
}

// Execute materializes the projection.
func (p *Project) Execute() (*schema.Table, error) {
	input, err := p.Child.Execute()
	if err != nil {
		return nil, err
	}

	var keep []int
	output := schema.NewTable(input.Name + "_projected")
	for i := range input.Columns {
		for _, ref := range p.Columns {
			if input.Columns[i].Name == ref.Column && input.Columns[i].BaseTable == ref.Table {
				keep = append(keep, i)
				output.Columns = append(output.Columns, input.Columns[i].Clone())
				break
			}
		}
	}

	for _, row := range input.Rows {
		projected := make([]types.Value, 0, len(keep))
		for _, i := range keep {
			projected = append(projected, row[i])
		}
		output.Rows = append(output.Rows, projected)
	}

	return output, nil
}
