// pkg/planner/joins_first.go
package planner

import (
	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// JoinsFirst applies every join in input order before any filter. Usually
// the worst strategy; it exists as the comparison baseline for the others.
type JoinsFirst struct {
	strategyBase
}

// NewJoinsFirst creates the strategy for one query.
func NewJoinsFirst(cat *schema.Catalog, qc *query.QueryComponents) *JoinsFirst {
	return &JoinsFirst{strategyBase: newStrategyBase(cat, qc)}
}

func (s *JoinsFirst) Name() string { return "JoinsFirst" }

// Generate derives the plan.
func (s *JoinsFirst) Generate() (*Plan, error) {
	sizes, err := s.initTableSizes()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Trace: []string{"Estimating costs for joins-first strategy:"}}

	plan.Trace = append(plan.Trace, "Estimating join costs:")
	for _, j := range s.qc.Joins {
		cs, outputSize := s.applyJoinEstimate(j, sizes)
		plan.EstimatedCost += cs.Cost
		plan.Trace = append(plan.Trace, joinTrace(j, cs, outputSize))
		plan.Steps = append(plan.Steps, JoinStep{Join: j})
	}

	plan.Trace = append(plan.Trace, "Estimating filter costs:")
	for _, f := range s.qc.ScalarFilters {
		cs, err := s.cost.FilterCost(f)
		if err != nil {
			return nil, err
		}

		plan.EstimatedCost += cs.Cost
		outputSize := int(float64(sizes[f.Table]) * cs.Selectivity)
		sizes[f.Table] = outputSize

		plan.Trace = append(plan.Trace, filterTrace(f, cs, outputSize))
		plan.Steps = append(plan.Steps, FilterStep{Filter: f})
	}

	s.plan = plan
	return plan, nil
}
