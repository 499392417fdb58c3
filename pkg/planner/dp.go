// pkg/planner/dp.go
package planner

import (
	"fmt"
	"math"

	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// MaxDPRelations bounds the bitmask DP table. Decomposed queries reference
// a handful of tables; the cap only guards against pathological input.
const MaxDPRelations = 20

// DPJoin applies filters first, then runs bottom-up dynamic programming over
// subsets of the referenced tables: the best plan for a set is the cheapest
// way to join the best plans of two disjoint subsets connected by a join.
// Unlike the permutation strategy this considers bushy shapes. Subset plans
// carry their join sequence, so the winning plan is executable.
type DPJoin struct {
	strategyBase
}

// NewDPJoin creates the strategy for one query.
func NewDPJoin(cat *schema.Catalog, qc *query.QueryComponents) *DPJoin {
	return &DPJoin{strategyBase: newStrategyBase(cat, qc)}
}

func (s *DPJoin) Name() string { return "DPJoin" }

// subPlan is the best known plan for one subset of tables. size is the
// estimated row count of the subset's intermediate result.
type subPlan struct {
	cost  float64
	size  int
	joins []query.Join
	valid bool
}

// Generate derives the plan.
func (s *DPJoin) Generate() (*Plan, error) {
	n := len(s.qc.Tables)
	if n > MaxDPRelations {
		return nil, fmt.Errorf("dynamic programming planner cannot handle more than %d tables", MaxDPRelations)
	}

	plan := &Plan{Trace: []string{"Estimating costs for dynamic programming join strategy:"}}

	sizes, err := s.initTableSizes()
	if err != nil {
		return nil, err
	}

	if err := s.applyFilterEstimates(plan, sizes); err != nil {
		return nil, err
	}

	plan.Trace = append(plan.Trace, "Estimating join costs (dynamic programming):")

	tableBit := make(map[string]uint, n)
	for i, name := range s.qc.Tables {
		tableBit[name] = uint(i)
	}

	dp := make([]subPlan, 1<<n)
	for i, name := range s.qc.Tables {
		// Single tables carry their post-filter size and no join cost.
		dp[1<<i] = subPlan{size: sizes[name], valid: true}
	}

	for mask := 3; mask < 1<<n; mask++ {
		if mask&(mask-1) == 0 {
			continue
		}
		best := subPlan{cost: math.MaxFloat64}

		// Splits enumerate in descending submask order and joins in input
		// order, so ties resolve the same way on every run.
		for sub := (mask - 1) & mask; sub > 0; sub = (sub - 1) & mask {
			other := mask ^ sub
			if !dp[sub].valid || !dp[other].valid {
				continue
			}

			for _, j := range s.qc.Joins {
				if !joinConnects(j, uint64(sub), uint64(other), tableBit) {
					continue
				}

				cs := s.cost.JoinCost(dp[sub].size, dp[other].size)
				cost := dp[sub].cost + dp[other].cost + cs.Cost
				if cost >= best.cost {
					continue
				}

				joins := make([]query.Join, 0, len(dp[sub].joins)+len(dp[other].joins)+1)
				joins = append(joins, dp[sub].joins...)
				joins = append(joins, dp[other].joins...)
				joins = append(joins, j)
				best = subPlan{
					cost:  cost,
					size:  JoinOutputSize(dp[sub].size, dp[other].size),
					joins: joins,
					valid: true,
				}
			}
		}

		if best.valid {
			dp[mask] = best
		}
	}

	full := dp[1<<n-1]
	if full.valid {
		plan.EstimatedCost += full.cost
		plan.Trace = append(plan.Trace, "Best join order found:")

		// Replay the winning sequence against the working sizes to emit the
		// per-join trace. Every join collapses both participants to the
		// output size, so sequential replay reproduces the subset sizes.
		for _, j := range full.joins {
			cs, outputSize := s.applyJoinEstimate(j, sizes)
			plan.Trace = append(plan.Trace, joinTrace(j, cs, outputSize))
			plan.Steps = append(plan.Steps, JoinStep{Join: j})
		}
	}

	s.plan = plan
	return plan, nil
}

// joinConnects reports whether j has one endpoint in each of the two
// disjoint subsets.
func joinConnects(j query.Join, sub, other uint64, tableBit map[string]uint) bool {
	lhsBit, lok := tableBit[j.LhsTable]
	rhsBit, rok := tableBit[j.RhsTable]
	if !lok || !rok {
		return false
	}

	lhsInSub := sub&(1<<lhsBit) != 0
	rhsInSub := sub&(1<<rhsBit) != 0
	lhsInOther := other&(1<<lhsBit) != 0
	rhsInOther := other&(1<<rhsBit) != 0

	return (lhsInSub && rhsInOther) || (lhsInOther && rhsInSub)
}
