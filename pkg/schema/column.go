// pkg/schema/column.go
package schema

import (
	"fmt"

	"github.com/hershd23/query-optimization/pkg/types"
)

// Column describes one table column. BaseTable records the table the column
// was originally declared on, so columns of a joined table keep their
// provenance and can still be addressed as "base_table.column".
type Column struct {
	Name      string
	BaseTable string
	Type      types.ValueType

	hist     *Histogram
	textHist *TextHistogram
}

// NewColumn creates a column with a fresh histogram of the default shape for
// its type.
func NewColumn(name, baseTable string, typ types.ValueType) Column {
	c := Column{Name: name, BaseTable: baseTable, Type: typ}
	switch typ {
	case types.TypeInteger:
		c.hist = NewHistogram(DefaultIntegerBuckets, DefaultIntegerLow, DefaultIntegerHigh)
	case types.TypeText:
		c.textHist = NewTextHistogram(DefaultTextBuckets)
	}
	return c
}

// Clone returns a copy of the column whose histogram does not alias the
// original.
func (c *Column) Clone() Column {
	dup := Column{Name: c.Name, BaseTable: c.BaseTable, Type: c.Type}
	if c.hist != nil {
		dup.hist = c.hist.Clone()
	}
	if c.textHist != nil {
		dup.textHist = c.textHist.Clone()
	}
	return dup
}

// AddValue counts a value in the column's histogram. The value is assumed to
// have already passed the table's type check.
func (c *Column) AddValue(v types.Value) {
	switch c.Type {
	case types.TypeInteger:
		c.hist.Add(v.Int())
	case types.TypeText:
		c.textHist.Add(v.Text())
	}
}

// Histogram returns the integer histogram, or nil for text columns.
func (c *Column) Histogram() *Histogram {
	return c.hist
}

// Selectivity estimates the fraction of the column's values satisfying
// "value op v".
func (c *Column) Selectivity(op types.Op, v types.Value) (float64, error) {
	if v.Type() != c.Type {
		return 0, fmt.Errorf("%w: column %s.%s is %s, probe value is %s",
			types.ErrTypeMismatch, c.BaseTable, c.Name, c.Type, v.Type())
	}
	switch c.Type {
	case types.TypeInteger:
		return c.hist.Selectivity(op, v.Int())
	default:
		return c.textHist.Selectivity(op, v.Text())
	}
}
