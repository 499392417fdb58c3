// pkg/schema/table.go
package schema

import (
	"fmt"
	"math"

	"github.com/hershd23/query-optimization/pkg/types"
)

// Table holds column metadata and fully materialized rows. Rows keep
// insertion order; every row has exactly one value per column, matching the
// column's type.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]types.Value
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// AddColumn appends a column owned by baseTable. For base tables baseTable is
// the table's own name; derived tables pass through the originals.
func (t *Table) AddColumn(name, baseTable string, typ types.ValueType) {
	t.Columns = append(t.Columns, NewColumn(name, baseTable, typ))
}

// AddRow validates and appends a row, counting each value in its column's
// histogram.
func (t *Table) AddRow(row []types.Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: table %s has %d columns, row has %d",
			ErrRowArityMismatch, t.Name, len(t.Columns), len(row))
	}
	for i := range row {
		if row[i].Type() != t.Columns[i].Type {
			return fmt.Errorf("%w: column %s of table %s is %s, value is %s",
				types.ErrTypeMismatch, t.Columns[i].Name, t.Name,
				t.Columns[i].Type, row[i].Type())
		}
	}

	t.Rows = append(t.Rows, row)
	for i := range row {
		t.Columns[i].AddValue(row[i])
	}
	return nil
}

// Size returns the number of stored rows.
func (t *Table) Size() int {
	return len(t.Rows)
}

// ColumnIndex finds the position of a column by name and owning base table.
// Both must match: after a join the same column name can appear once per
// participating table.
func (t *Table) ColumnIndex(column, baseTable string) (int, error) {
	for i := range t.Columns {
		if t.Columns[i].Name == column && t.Columns[i].BaseTable == baseTable {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s.%s in table %s", ErrColumnNotFound, baseTable, column, t.Name)
}

// findColumn locates the first column with the given name, regardless of
// owning table.
func (t *Table) findColumn(column string) (*Column, error) {
	for i := range t.Columns {
		if t.Columns[i].Name == column {
			return &t.Columns[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s in table %s", ErrColumnNotFound, column, t.Name)
}

// ColumnType returns the type of the first column with the given name.
func (t *Table) ColumnType(column string) (types.ValueType, error) {
	c, err := t.findColumn(column)
	if err != nil {
		return 0, err
	}
	return c.Type, nil
}

// EstimateSelectivity dispatches a selectivity probe to the named column's
// histogram.
func (t *Table) EstimateSelectivity(column string, op types.Op, v types.Value) (float64, error) {
	c, err := t.findColumn(column)
	if err != nil {
		return 0, err
	}
	return c.Selectivity(op, v)
}

// RecomputeIntegerHistograms rebuilds every integer column's histogram with
// bounds tightened to the stored min/max and re-ingests all values. Derived
// tables call this after filters and joins so later estimates stay
// meaningful.
func (t *Table) RecomputeIntegerHistograms() {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Type != types.TypeInteger {
			continue
		}

		lo := int64(math.MaxInt64)
		hi := int64(math.MinInt64)
		for _, row := range t.Rows {
			v := row[i].Int()
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if len(t.Rows) == 0 {
			lo, hi = DefaultIntegerLow, DefaultIntegerHigh
		}

		col.hist.Reset(lo, hi)
		for _, row := range t.Rows {
			col.hist.Add(row[i].Int())
		}
	}
}

// CloneSchema creates an empty table with copies of this table's columns.
// Histograms are cloned, not shared.
func (t *Table) CloneSchema(name string) *Table {
	dup := NewTable(name)
	dup.Columns = make([]Column, 0, len(t.Columns))
	for i := range t.Columns {
		dup.Columns = append(dup.Columns, t.Columns[i].Clone())
	}
	return dup
}
