// pkg/planner/planner.go
package planner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// Planner runs every strategy over one query and selects the cheapest plan.
// Strategies run in declaration order; cost ties keep the earlier strategy.
type Planner struct {
	cat        *schema.Catalog
	qc         *query.QueryComponents
	strategies []Strategy
	genTimes   map[string]time.Duration
	logger     *slog.Logger
}

// New creates a planner holding all five strategies for the query. A nil
// logger falls back to slog.Default().
func New(cat *schema.Catalog, qc *query.QueryComponents, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		cat: cat,
		qc:  qc,
		strategies: []Strategy{
			NewJoinsFirst(cat, qc),
			NewFiltersFirst(cat, qc),
			NewTryAllJoinOrders(cat, qc),
			NewGreedyJoin(cat, qc),
			NewDPJoin(cat, qc),
		},
		genTimes: make(map[string]time.Duration),
		logger:   logger,
	}
}

// Strategies returns the strategies in declaration order.
func (p *Planner) Strategies() []Strategy {
	return p.strategies
}

// GenerationTime returns how long the named strategy took to generate.
func (p *Planner) GenerationTime(name string) time.Duration {
	return p.genTimes[name]
}

// GeneratePlans runs every strategy, recording per-strategy generation time.
func (p *Planner) GeneratePlans() error {
	if !p.qc.Connected() {
		p.logger.Warn("join graph does not connect all referenced tables; greedy ordering degrades",
			"tables", p.qc.Tables)
	}

	for _, s := range p.strategies {
		start := time.Now()
		if _, err := s.Generate(); err != nil {
			return fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		p.genTimes[s.Name()] = time.Since(start)
	}
	return nil
}

// BestPlan returns the strategy with the lowest estimated cost and its plan.
// Returns ErrPlanNotReady before GeneratePlans has run.
func (p *Planner) BestPlan() (Strategy, *Plan, error) {
	var best Strategy
	var bestPlan *Plan

	for _, s := range p.strategies {
		plan, err := s.Plan()
		if err != nil {
			return nil, nil, err
		}
		if bestPlan == nil || plan.EstimatedCost < bestPlan.EstimatedCost {
			best = s
			bestPlan = plan
		}
	}

	if bestPlan == nil {
		return nil, nil, ErrPlanNotReady
	}
	return best, bestPlan, nil
}
