// pkg/planner/plan.go
package planner

import (
	"errors"
	"fmt"

	"github.com/hershd23/query-optimization/pkg/query"
)

// ErrPlanNotReady is returned when a plan is requested from a strategy that
// has not generated one yet.
var ErrPlanNotReady = errors.New("plan not generated")

// Step is one physical operation in a plan's execution order: either a
// scalar filter or an equi-join.
type Step interface {
	fmt.Stringer
	step()
}

// FilterStep applies a scalar filter to the current version of its table.
type FilterStep struct {
	Filter query.ScalarFilter
}

func (s FilterStep) step() {}

func (s FilterStep) String() string {
	return fmt.Sprintf("Filter: %s", s.Filter)
}

// JoinStep joins the current versions of its two tables.
type JoinStep struct {
	Join query.Join
}

func (s JoinStep) step() {}

func (s JoinStep) String() string {
	return fmt.Sprintf("Join: %s", s.Join)
}

// Plan is an ordered list of physical steps together with the strategy's
// total cost estimate and a human-readable trace of how it was derived.
type Plan struct {
	Steps         []Step
	EstimatedCost float64
	Trace         []string
}

// Strategy is one planning approach. Generate derives the plan; Plan and
// EstimatedCost expose the result afterwards.
type Strategy interface {
	Name() string
	Generate() (*Plan, error)
	Plan() (*Plan, error)
	EstimatedCost() float64
}
