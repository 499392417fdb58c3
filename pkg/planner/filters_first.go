// pkg/planner/filters_first.go
package planner

import (
	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// FiltersFirst applies every scalar filter in input order, then every join
// in input order. This is the baseline most queries want: filters shrink the
// join inputs.
type FiltersFirst struct {
	strategyBase
}

// NewFiltersFirst creates the strategy for one query.
func NewFiltersFirst(cat *schema.Catalog, qc *query.QueryComponents) *FiltersFirst {
	return &FiltersFirst{strategyBase: newStrategyBase(cat, qc)}
}

func (s *FiltersFirst) Name() string { return "FiltersFirst" }

// Generate derives the plan.
func (s *FiltersFirst) Generate() (*Plan, error) {
	sizes, err := s.initTableSizes()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Trace: []string{"Estimating costs for filters-first strategy:"}}

	if err := s.applyFilterEstimates(plan, sizes); err != nil {
		return nil, err
	}

	plan.Trace = append(plan.Trace, "Estimating join costs:")
	for _, j := range s.qc.Joins {
		cs, outputSize := s.applyJoinEstimate(j, sizes)
		plan.EstimatedCost += cs.Cost
		plan.Trace = append(plan.Trace, joinTrace(j, cs, outputSize))
		plan.Steps = append(plan.Steps, JoinStep{Join: j})
	}

	s.plan = plan
	return plan, nil
}
