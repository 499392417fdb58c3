// pkg/planner/cost.go
package planner

import (
	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// Cost constants shared by every planning strategy. Estimates only need to
// be consistent across strategies, not calibrated against wall-clock time.
const (
	ScanCostFactor    = 1.0
	JoinIOCostFactor  = 1.0
	JoinCPUCostFactor = 0.1
)

// CostAndSelectivity pairs an estimated cost with the selectivity that
// produced it.
type CostAndSelectivity struct {
	Cost        float64
	Selectivity float64
}

// CostModel computes filter and join cost estimates against the catalog. All
// strategies share one model so their totals are comparable.
type CostModel struct {
	cat *schema.Catalog
}

// NewCostModel creates a cost model over the given catalog.
func NewCostModel(cat *schema.Catalog) *CostModel {
	return &CostModel{cat: cat}
}

// FilterCost estimates applying a scalar filter. The input size is the base
// table's catalog size: histograms live on base tables, and keeping the cost
// basis fixed keeps strategy totals comparable even after joins have shrunk
// the working sizes.
func (m *CostModel) FilterCost(f query.ScalarFilter) (CostAndSelectivity, error) {
	tbl, err := m.cat.GetTable(f.Table)
	if err != nil {
		return CostAndSelectivity{}, err
	}

	sel, err := tbl.EstimateSelectivity(f.Column, f.Op, f.Value)
	if err != nil {
		return CostAndSelectivity{}, err
	}

	n := float64(tbl.Size())
	return CostAndSelectivity{
		Cost:        n*ScanCostFactor + n*sel,
		Selectivity: sel,
	}, nil
}

// JoinCost estimates a nested-loop equi-join of the given input sizes. Joins
// are assumed to be primary-key bounded, so the reported selectivity is the
// size ratio of the smaller side to the larger.
func (m *CostModel) JoinCost(leftSize, rightSize int) CostAndSelectivity {
	small, large := leftSize, rightSize
	if small > large {
		small, large = large, small
	}

	sel := 0.0
	if large > 0 {
		sel = float64(small) / float64(large)
	}

	io := float64(leftSize+rightSize) * JoinIOCostFactor
	cpu := float64(leftSize) * float64(rightSize) * JoinCPUCostFactor
	return CostAndSelectivity{Cost: io + cpu, Selectivity: sel}
}

// JoinOutputSize is the estimated row count of an equi-join under the
// primary-key assumption: the smaller input bounds the output.
func JoinOutputSize(leftSize, rightSize int) int {
	if leftSize < rightSize {
		return leftSize
	}
	return rightSize
}
