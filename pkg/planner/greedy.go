// pkg/planner/greedy.go
package planner

import (
	"math"

	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// GreedyJoin applies filters first, seeds the joined set with the smallest
// post-filter table, and repeatedly takes the cheapest join that connects a
// joined table to one not yet joined. Linear in joins per step, no
// backtracking.
type GreedyJoin struct {
	strategyBase
}

// NewGreedyJoin creates the strategy for one query.
func NewGreedyJoin(cat *schema.Catalog, qc *query.QueryComponents) *GreedyJoin {
	return &GreedyJoin{strategyBase: newStrategyBase(cat, qc)}
}

func (s *GreedyJoin) Name() string { return "GreedyJoin" }

// Generate derives the plan.
func (s *GreedyJoin) Generate() (*Plan, error) {
	plan := &Plan{Trace: []string{"Estimating costs for greedy join strategy:"}}

	sizes, err := s.initTableSizes()
	if err != nil {
		return nil, err
	}

	if err := s.applyFilterEstimates(plan, sizes); err != nil {
		return nil, err
	}

	plan.Trace = append(plan.Trace, "Estimating join costs (greedy strategy):")

	remaining := make([]query.Join, len(s.qc.Joins))
	copy(remaining, s.qc.Joins)

	joined := map[string]bool{smallestTable(s.qc.Tables, sizes): true}

	for len(remaining) > 0 {
		bestIdx := s.findBestNextJoin(remaining, joined, sizes)
		best := remaining[bestIdx]

		cs, outputSize := s.applyJoinEstimate(best, sizes)
		plan.EstimatedCost += cs.Cost
		plan.Trace = append(plan.Trace, joinTrace(best, cs, outputSize))
		plan.Steps = append(plan.Steps, JoinStep{Join: best})

		joined[best.LhsTable] = true
		joined[best.RhsTable] = true
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	s.plan = plan
	return plan, nil
}

// findBestNextJoin picks the cheapest join with exactly one side already in
// the joined set. When the join graph is disconnected no candidate may
// qualify; the first remaining join is taken so planning still terminates.
func (s *GreedyJoin) findBestNextJoin(remaining []query.Join, joined map[string]bool, sizes map[string]int) int {
	bestCost := math.MaxFloat64
	bestIdx := 0

	for i, j := range remaining {
		canJoinLeft := joined[j.LhsTable]
		canJoinRight := joined[j.RhsTable]
		if canJoinLeft == canJoinRight {
			continue
		}

		cs := s.cost.JoinCost(sizes[j.LhsTable], sizes[j.RhsTable])
		if cs.Cost < bestCost {
			bestCost = cs.Cost
			bestIdx = i
		}
	}

	return bestIdx
}

// smallestTable returns the referenced table with the fewest working rows,
// first in input order on ties.
func smallestTable(tables []string, sizes map[string]int) string {
	best := ""
	bestSize := math.MaxInt
	for _, name := range tables {
		if sizes[name] < bestSize {
			best = name
			bestSize = sizes[name]
		}
	}
	return best
}
