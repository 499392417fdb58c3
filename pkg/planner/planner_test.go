// pkg/planner/planner_test.go
package planner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

// testCatalog builds three tables of decreasing size with join columns.
func testCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	cat := schema.NewCatalog()

	addTable := func(name string, rows int) {
		tbl := schema.NewTable(name)
		tbl.AddColumn("id", name, types.TypeInteger)
		tbl.AddColumn("ref", name, types.TypeInteger)
		for i := 0; i < rows; i++ {
			err := tbl.AddRow([]types.Value{
				types.NewInteger(int64(i)),
				types.NewInteger(int64(i % 100)),
			})
			if err != nil {
				t.Fatalf("AddRow(%s): %v", name, err)
			}
		}
		tbl.RecomputeIntegerHistograms()
		cat.AddTable(name, tbl)
	}

	addTable("orders", 1000)
	addTable("customers", 100)
	addTable("regions", 10)
	return cat
}

func chainQuery() *query.QueryComponents {
	return &query.QueryComponents{
		Tables: []string{"orders", "customers", "regions"},
		ScalarFilters: []query.ScalarFilter{
			{Table: "orders", Column: "id", Op: types.OpLessThan, Value: types.NewInteger(100)},
		},
		Joins: []query.Join{
			{LhsTable: "orders", LhsColumn: "ref", Op: types.OpEquals, RhsTable: "customers", RhsColumn: "id"},
			{LhsTable: "customers", LhsColumn: "ref", Op: types.OpEquals, RhsTable: "regions", RhsColumn: "id"},
		},
	}
}

// TestFiltersFirst_StepOrder tests that filters precede joins, both in input
// order
func TestFiltersFirst_StepOrder(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	plan, err := NewFiltersFirst(cat, qc).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(plan.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(plan.Steps))
	}
	if _, ok := plan.Steps[0].(FilterStep); !ok {
		t.Errorf("step 0 = %T, want FilterStep", plan.Steps[0])
	}
	for i := 1; i < 3; i++ {
		if _, ok := plan.Steps[i].(JoinStep); !ok {
			t.Errorf("step %d = %T, want JoinStep", i, plan.Steps[i])
		}
	}

	if plan.EstimatedCost <= 0 {
		t.Errorf("estimated cost = %f, want positive", plan.EstimatedCost)
	}
	if len(plan.Trace) == 0 {
		t.Error("expected a non-empty trace")
	}
}

// TestJoinsFirst_StepOrder tests the inverted ordering
func TestJoinsFirst_StepOrder(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	plan, err := NewJoinsFirst(cat, qc).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(plan.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(plan.Steps))
	}
	if _, ok := plan.Steps[0].(JoinStep); !ok {
		t.Errorf("step 0 = %T, want JoinStep", plan.Steps[0])
	}
	if _, ok := plan.Steps[2].(FilterStep); !ok {
		t.Errorf("step 2 = %T, want FilterStep", plan.Steps[2])
	}
}

// TestFiltersFirstBeatsJoinsFirst tests the cost relation for a selective
// filter
func TestFiltersFirstBeatsJoinsFirst(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	ff, err := NewFiltersFirst(cat, qc).Generate()
	if err != nil {
		t.Fatalf("FiltersFirst: %v", err)
	}
	jf, err := NewJoinsFirst(cat, qc).Generate()
	if err != nil {
		t.Fatalf("JoinsFirst: %v", err)
	}

	// The filter keeps about 10% of orders, well under the 0.5 threshold
	// where filtering first must win.
	if ff.EstimatedCost > jf.EstimatedCost {
		t.Errorf("FiltersFirst cost %f > JoinsFirst cost %f with a selective filter",
			ff.EstimatedCost, jf.EstimatedCost)
	}
}

// TestPlannerLaw_DPvsExhaustivevsGreedy tests the strategy ordering law
func TestPlannerLaw_DPvsExhaustivevsGreedy(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	dp, err := NewDPJoin(cat, qc).Generate()
	if err != nil {
		t.Fatalf("DPJoin: %v", err)
	}
	ex, err := NewTryAllJoinOrders(cat, qc).Generate()
	if err != nil {
		t.Fatalf("TryAllJoinOrders: %v", err)
	}
	greedy, err := NewGreedyJoin(cat, qc).Generate()
	if err != nil {
		t.Fatalf("GreedyJoin: %v", err)
	}

	const eps = 1e-9
	if dp.EstimatedCost > ex.EstimatedCost+eps {
		t.Errorf("DP cost %f > exhaustive cost %f", dp.EstimatedCost, ex.EstimatedCost)
	}
	if ex.EstimatedCost > greedy.EstimatedCost+eps {
		t.Errorf("exhaustive cost %f > greedy cost %f", ex.EstimatedCost, greedy.EstimatedCost)
	}
}

// TestDPJoin_EmitsExecutableOrder tests the reconstructed join sequence
func TestDPJoin_EmitsExecutableOrder(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	plan, err := NewDPJoin(cat, qc).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	joinSteps := 0
	for _, step := range plan.Steps {
		if _, ok := step.(JoinStep); ok {
			joinSteps++
		}
	}
	if joinSteps != len(qc.Joins) {
		t.Errorf("DP emitted %d join steps, want %d", joinSteps, len(qc.Joins))
	}
}

// TestGreedy_StartsWithSmallestAndConnects tests the neighbor-selection walk
func TestGreedy_StartsWithSmallestAndConnects(t *testing.T) {
	cat := testCatalog(t)
	qc := &query.QueryComponents{
		Tables: []string{"orders", "customers", "regions"},
		Joins: []query.Join{
			{LhsTable: "orders", LhsColumn: "ref", Op: types.OpEquals, RhsTable: "customers", RhsColumn: "id"},
			{LhsTable: "customers", LhsColumn: "ref", Op: types.OpEquals, RhsTable: "regions", RhsColumn: "id"},
		},
	}

	plan, err := NewGreedyJoin(cat, qc).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(plan.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(plan.Steps))
	}
	// regions is smallest, so its join must come first.
	first := plan.Steps[0].(JoinStep).Join
	if first.RhsTable != "regions" && first.LhsTable != "regions" {
		t.Errorf("first greedy join = %s, want one touching regions", first)
	}
}

// TestStrategy_PlanNotReady tests the accessor before generation
func TestStrategy_PlanNotReady(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	s := NewFiltersFirst(cat, qc)
	if _, err := s.Plan(); !errors.Is(err, ErrPlanNotReady) {
		t.Errorf("expected ErrPlanNotReady, got %v", err)
	}
	if cost := s.EstimatedCost(); cost != 0 {
		t.Errorf("EstimatedCost before Generate = %f, want 0", cost)
	}

	if _, err := s.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := s.Plan(); err != nil {
		t.Errorf("Plan after Generate: %v", err)
	}
}

// TestPlanner_BestPlan tests the runner end to end
func TestPlanner_BestPlan(t *testing.T) {
	cat := testCatalog(t)
	qc := chainQuery()

	p := New(cat, qc, nil)

	if _, _, err := p.BestPlan(); !errors.Is(err, ErrPlanNotReady) {
		t.Fatalf("expected ErrPlanNotReady before GeneratePlans, got %v", err)
	}

	if err := p.GeneratePlans(); err != nil {
		t.Fatalf("GeneratePlans: %v", err)
	}

	best, bestPlan, err := p.BestPlan()
	if err != nil {
		t.Fatalf("BestPlan: %v", err)
	}

	for _, s := range p.Strategies() {
		if s.EstimatedCost() < bestPlan.EstimatedCost {
			t.Errorf("strategy %s cost %f beats selected best %s cost %f",
				s.Name(), s.EstimatedCost(), best.Name(), bestPlan.EstimatedCost)
		}
		if p.GenerationTime(s.Name()) < 0 {
			t.Errorf("negative generation time for %s", s.Name())
		}
	}
}

// TestPlanner_UnsupportedPredicate tests that >= filters surface the
// histogram's unsupported-predicate error
func TestPlanner_UnsupportedPredicate(t *testing.T) {
	cat := testCatalog(t)
	qc := &query.QueryComponents{
		Tables: []string{"orders"},
		ScalarFilters: []query.ScalarFilter{
			{Table: "orders", Column: "id", Op: types.OpGreaterThanOrEq, Value: types.NewInteger(10)},
		},
	}

	_, err := NewFiltersFirst(cat, qc).Generate()
	if !errors.Is(err, schema.ErrPredicateUnsupported) {
		t.Errorf("expected ErrPredicateUnsupported, got %v", err)
	}
}

// TestCostModel_JoinCost tests the join formula directly
func TestCostModel_JoinCost(t *testing.T) {
	m := NewCostModel(schema.NewCatalog())

	cs := m.JoinCost(100, 1000)
	wantIO := float64(100+1000) * JoinIOCostFactor
	wantCPU := float64(100) * float64(1000) * JoinCPUCostFactor
	if cs.Cost != wantIO+wantCPU {
		t.Errorf("join cost = %f, want %f", cs.Cost, wantIO+wantCPU)
	}
	if cs.Selectivity != 0.1 {
		t.Errorf("join selectivity = %f, want 0.1", cs.Selectivity)
	}

	if got := JoinOutputSize(100, 1000); got != 100 {
		t.Errorf("JoinOutputSize = %d, want 100", got)
	}

	// Empty inputs must not divide by zero.
	if cs := m.JoinCost(0, 0); cs.Selectivity != 0 || cs.Cost != 0 {
		t.Errorf("empty join = %+v, want zeros", cs)
	}
}

// TestTryAllJoinOrders_PrefersCheapSequence tests that permutation search
// reorders an expensive input order
func TestTryAllJoinOrders_PrefersCheapSequence(t *testing.T) {
	cat := testCatalog(t)

	// Input order starts with the largest pair; the cheaper order joins the
	// two small tables first.
	qc := &query.QueryComponents{
		Tables: []string{"orders", "customers", "regions"},
		Joins: []query.Join{
			{LhsTable: "orders", LhsColumn: "ref", Op: types.OpEquals, RhsTable: "customers", RhsColumn: "id"},
			{LhsTable: "customers", LhsColumn: "ref", Op: types.OpEquals, RhsTable: "regions", RhsColumn: "id"},
		},
	}

	ex, err := NewTryAllJoinOrders(cat, qc).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	jf, err := NewJoinsFirst(cat, qc).Generate()
	if err != nil {
		t.Fatalf("JoinsFirst: %v", err)
	}

	if ex.EstimatedCost > jf.EstimatedCost {
		t.Errorf("exhaustive cost %f exceeds input-order cost %f", ex.EstimatedCost, jf.EstimatedCost)
	}

	var gotOrder []string
	for _, step := range ex.Steps {
		if js, ok := step.(JoinStep); ok {
			gotOrder = append(gotOrder, fmt.Sprintf("%s-%s", js.Join.LhsTable, js.Join.RhsTable))
		}
	}
	if len(gotOrder) != 2 {
		t.Fatalf("join steps = %v", gotOrder)
	}
	// customers-regions first is cheaper: it shrinks customers to 10 before
	// the big orders join.
	if gotOrder[0] != "customers-regions" {
		t.Errorf("join order = %v, want customers-regions first", gotOrder)
	}
}
