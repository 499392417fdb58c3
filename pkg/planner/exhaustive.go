// pkg/planner/exhaustive.go
package planner

import (
	"fmt"
	"math"

	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// TryAllJoinOrders applies filters first, then enumerates every permutation
// of the join list and keeps the cheapest sequence. Exponential in the join
// count; fine at the handful of joins the decomposed queries carry.
type TryAllJoinOrders struct {
	strategyBase
}

// NewTryAllJoinOrders creates the strategy for one query.
func NewTryAllJoinOrders(cat *schema.Catalog, qc *query.QueryComponents) *TryAllJoinOrders {
	return &TryAllJoinOrders{strategyBase: newStrategyBase(cat, qc)}
}

func (s *TryAllJoinOrders) Name() string { return "TryAllJoinOrders" }

// Generate derives the plan.
func (s *TryAllJoinOrders) Generate() (*Plan, error) {
	sizes, err := s.initTableSizes()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Trace: []string{"Estimating costs for optimal-join-order strategy:"}}

	if err := s.applyFilterEstimates(plan, sizes); err != nil {
		return nil, err
	}

	plan.Trace = append(plan.Trace, "Trying all possible join orders:")

	bestJoinCost := math.MaxFloat64
	var bestOrder []query.Join
	var bestTrace []string

	for _, order := range permuteJoins(s.qc.Joins) {
		currentCost := 0.0
		var currentTrace []string
		currentSizes := copySizes(sizes)

		for _, j := range order {
			cs := s.cost.JoinCost(currentSizes[j.LhsTable], currentSizes[j.RhsTable])
			currentCost += cs.Cost

			outputSize := JoinOutputSize(currentSizes[j.LhsTable], currentSizes[j.RhsTable])
			currentSizes[j.LhsTable] = outputSize
			currentSizes[j.RhsTable] = outputSize

			currentTrace = append(currentTrace, joinTrace(j, cs, outputSize))
		}

		if currentCost < bestJoinCost {
			bestJoinCost = currentCost
			bestOrder = order
			bestTrace = currentTrace
		}
	}

	plan.Trace = append(plan.Trace,
		fmt.Sprintf("Best join order found all permutations (Cost: %.6f):", bestJoinCost))
	plan.Trace = append(plan.Trace, bestTrace...)

	for _, j := range bestOrder {
		plan.Steps = append(plan.Steps, JoinStep{Join: j})
	}
	plan.EstimatedCost += bestJoinCost

	s.plan = plan
	return plan, nil
}

// permuteJoins returns every permutation of joins in a deterministic order;
// the first emitted permutation is the input order, so cost ties keep it.
func permuteJoins(joins []query.Join) [][]query.Join {
	arr := make([]query.Join, len(joins))
	copy(arr, joins)

	var result [][]query.Join
	var permute func(start int)
	permute = func(start int) {
		if start == len(arr) {
			perm := make([]query.Join, len(arr))
			copy(perm, arr)
			result = append(result, perm)
			return
		}
		for i := start; i < len(arr); i++ {
			arr[start], arr[i] = arr[i], arr[start]
			permute(start + 1)
			arr[start], arr[i] = arr[i], arr[start]
		}
	}
	permute(0)
	return result
}

func copySizes(sizes map[string]int) map[string]int {
	dup := make(map[string]int, len(sizes))
	for k, v := range sizes {
		dup[k] = v
	}
	return dup
}
