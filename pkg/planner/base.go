// pkg/planner/base.go
package planner

import (
	"fmt"

	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// strategyBase carries the state every strategy shares: the catalog, the
// query components, the cost model and the generated plan.
type strategyBase struct {
	cat  *schema.Catalog
	qc   *query.QueryComponents
	cost *CostModel
	plan *Plan
}

func newStrategyBase(cat *schema.Catalog, qc *query.QueryComponents) strategyBase {
	return strategyBase{cat: cat, qc: qc, cost: NewCostModel(cat)}
}

// Plan returns the generated plan, or ErrPlanNotReady before Generate has
// run.
func (b *strategyBase) Plan() (*Plan, error) {
	if b.plan == nil {
		return nil, ErrPlanNotReady
	}
	return b.plan, nil
}

// EstimatedCost returns the generated plan's total cost estimate, or zero
// before Generate has run.
func (b *strategyBase) EstimatedCost() float64 {
	if b.plan == nil {
		return 0
	}
	return b.plan.EstimatedCost
}

// initTableSizes seeds the working-size map from catalog row counts.
func (b *strategyBase) initTableSizes() (map[string]int, error) {
	sizes := make(map[string]int, len(b.qc.Tables))
	for _, name := range b.qc.Tables {
		size, err := b.cat.TableSize(name)
		if err != nil {
			return nil, err
		}
		sizes[name] = size
	}
	return sizes, nil
}

// applyFilterEstimates estimates every scalar filter in input order,
// appending steps and trace lines to the plan and shrinking the working
// sizes. This is the shared filters-first prefix of four of the five
// strategies.
func (b *strategyBase) applyFilterEstimates(plan *Plan, sizes map[string]int) error {
	plan.Trace = append(plan.Trace, "Estimating filter costs:")
	for _, f := range b.qc.ScalarFilters {
		cs, err := b.cost.FilterCost(f)
		if err != nil {
			return err
		}

		plan.EstimatedCost += cs.Cost
		outputSize := int(float64(sizes[f.Table]) * cs.Selectivity)
		sizes[f.Table] = outputSize

		plan.Trace = append(plan.Trace, filterTrace(f, cs, outputSize))
		plan.Steps = append(plan.Steps, FilterStep{Filter: f})
	}
	return nil
}

// applyJoinEstimate estimates one join against the working sizes, updating
// both participants to the estimated output size.
func (b *strategyBase) applyJoinEstimate(j query.Join, sizes map[string]int) (CostAndSelectivity, int) {
	cs := b.cost.JoinCost(sizes[j.LhsTable], sizes[j.RhsTable])
	outputSize := JoinOutputSize(sizes[j.LhsTable], sizes[j.RhsTable])
	sizes[j.LhsTable] = outputSize
	sizes[j.RhsTable] = outputSize
	return cs, outputSize
}

func filterTrace(f query.ScalarFilter, cs CostAndSelectivity, outputSize int) string {
	return fmt.Sprintf("  Filter %s.%s (Cost: %.6f, Selectivity: %.6f, Output size: %d)",
		f.Table, f.Column, cs.Cost, cs.Selectivity, outputSize)
}

func joinTrace(j query.Join, cs CostAndSelectivity, outputSize int) string {
	return fmt.Sprintf("  Join %s.%s = %s.%s (Cost: %.6f, Selectivity: %.6f, Output size: %d)",
		j.LhsTable, j.LhsColumn, j.RhsTable, j.RhsColumn, cs.Cost, cs.Selectivity, outputSize)
}
