// pkg/cli/repl.go
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hershd23/query-optimization/pkg/executor"
	"github.com/hershd23/query-optimization/pkg/planner"
	"github.com/hershd23/query-optimization/pkg/query"
	"github.com/hershd23/query-optimization/pkg/schema"
)

// REPL drives the engine interactively: it reads query blocks, generates
// every plan, executes them all with timings, and prints the best plan's
// result. Errors print and the loop resumes with the catalog intact.
type REPL struct {
	// cat is the loaded catalog
	cat *schema.Catalog

	// shell handles input and block framing
	shell *Shell

	// output is where results are written
	output io.Writer

	// errOutput is where errors are written
	errOutput io.Writer

	// logger receives planner diagnostics
	logger *slog.Logger

	// exitRequested indicates that .exit or quit was seen
	exitRequested bool
}

// NewREPL creates a REPL over an already-loaded catalog.
func NewREPL(cat *schema.Catalog, input io.Reader, output, errOutput io.Writer, logger *slog.Logger) *REPL {
	if errOutput == nil {
		errOutput = output
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &REPL{
		cat:       cat,
		shell:     NewShell(input, output),
		output:    output,
		errOutput: errOutput,
		logger:    logger,
	}
}

// Shell returns the underlying shell, for prompt configuration.
func (r *REPL) Shell() *Shell {
	return r.shell
}

// Run reads and processes blocks until quit, .exit or EOF.
func (r *REPL) Run() {
	fmt.Fprintln(r.output, "query-optimization shell")
	fmt.Fprintln(r.output, "Enter a query_start/query_end block, \".help\" for usage, or \"quit\" to exit.")

	for !r.exitRequested {
		lines, quit, eof := r.shell.ReadBlock()
		if quit {
			break
		}

		if len(lines) > 0 {
			first := strings.TrimSpace(lines[0])
			if strings.HasPrefix(first, ".") {
				r.handleDotCommand(first)
			} else if err := r.ProcessQuery(lines); err != nil {
				fmt.Fprintf(r.errOutput, "Error processing query: %v\n", err)
			}
		}

		if eof {
			break
		}
	}
}

// ProcessQuery parses, plans, executes and reports one query block.
func (r *REPL) ProcessQuery(lines []string) error {
	qc, err := query.Parse(lines, r.cat)
	if err != nil {
		return err
	}
	r.printComponents(qc)

	fmt.Fprintln(r.output, "\nGenerating query plans...")
	p := planner.New(r.cat, qc, r.logger)
	if err := p.GeneratePlans(); err != nil {
		return err
	}

	fmt.Fprintln(r.output, "\n=== Plan Generation Summary ===")
	for _, s := range p.Strategies() {
		plan, err := s.Plan()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.output, "\nPlan Type: %s\n", s.Name())
		fmt.Fprintf(r.output, "Generation Time: %.3f ms\n",
			float64(p.GenerationTime(s.Name()).Microseconds())/1000.0)
		for _, line := range plan.Trace {
			fmt.Fprintln(r.output, line)
		}
		fmt.Fprintf(r.output, "Total Estimated Cost: %.6f\n", plan.EstimatedCost)
	}

	fmt.Fprintln(r.output, "\n=== Executing All Plans ===")
	results := make(map[string]*schema.Table)
	type timing struct {
		name string
		ms   float64
	}
	var timings []timing

	for _, s := range p.Strategies() {
		plan, err := s.Plan()
		if err != nil {
			return err
		}

		fmt.Fprintf(r.output, "\nExecuting %s Plan:\n", s.Name())
		start := time.Now()
		result, err := executor.New(r.cat).ExecutePlan(plan)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		results[s.Name()] = result
		timings = append(timings, timing{s.Name(), float64(elapsed.Microseconds()) / 1000.0})
		if result != nil {
			fmt.Fprintf(r.output, "Found %d rows\n", result.Size())
		}
	}

	fmt.Fprintln(r.output, "\n=== Execution Time Summary ===")
	for _, tm := range timings {
		fmt.Fprintf(r.output, "%s Plan: %.3f ms\n", tm.name, tm.ms)
	}

	best, bestPlan, err := p.BestPlan()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.output, "\nBest Plan Selected: %s (Estimated Cost: %.6f)\n",
		best.Name(), bestPlan.EstimatedCost)
	for _, step := range bestPlan.Steps {
		fmt.Fprintf(r.output, "  %s\n", step)
	}
	RenderTable(r.output, results[best.Name()])

	return nil
}

// printComponents echoes the decomposed query the way the parser saw it.
func (r *REPL) printComponents(qc *query.QueryComponents) {
	fmt.Fprintln(r.output, "\n=== Query Components ===")

	fmt.Fprintln(r.output, "Tables:")
	for _, name := range qc.Tables {
		fmt.Fprintf(r.output, "  Table: %s\n", name)
	}

	fmt.Fprintln(r.output, "Scalar Filters:")
	if len(qc.ScalarFilters) == 0 {
		fmt.Fprintln(r.output, "  (none)")
	}
	for _, f := range qc.ScalarFilters {
		fmt.Fprintf(r.output, "  Scalar Filter: %s\n", f)
	}

	fmt.Fprintln(r.output, "Dynamic Filters:")
	if len(qc.DynamicFilters) == 0 {
		fmt.Fprintln(r.output, "  (none)")
	}
	for _, f := range qc.DynamicFilters {
		fmt.Fprintf(r.output, "  Dynamic Filter: %s\n", f)
	}

	fmt.Fprintln(r.output, "Joins:")
	if len(qc.Joins) == 0 {
		fmt.Fprintln(r.output, "  (none)")
	}
	for _, j := range qc.Joins {
		fmt.Fprintf(r.output, "  Join: %s\n", j)
	}
}

// handleDotCommand processes special dot commands.
func (r *REPL) handleDotCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case ".exit", ".quit":
		r.exitRequested = true
	case ".help":
		r.printHelp()
	case ".tables":
		for _, name := range r.cat.ListTables() {
			fmt.Fprintln(r.output, name)
		}
	case ".schema":
		if len(parts) > 1 {
			r.showSchema(parts[1])
		} else {
			for _, name := range r.cat.ListTables() {
				r.showSchema(name)
			}
		}
	default:
		fmt.Fprintf(r.errOutput, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.errOutput, "Use \".help\" for usage hints.")
	}
}

// printHelp displays help information.
func (r *REPL) printHelp() {
	help := `
.exit              Exit this program
.help              Show this help message
.schema [TABLE]    Show column declarations for table(s)
.tables            List all tables

Queries are key:value blocks between query_start and query_end lines:

  query_start
  tables: movie, casts
  scalar_filters: movie.id = 8854
  joins: movie.id = casts.mid
  query_end

Type "quit" alone on a line to exit.
`
	fmt.Fprintln(r.output, help)
}

// showSchema prints one table's declaration.
func (r *REPL) showSchema(tableName string) {
	tbl, err := r.cat.GetTable(tableName)
	if err != nil {
		fmt.Fprintf(r.errOutput, "Error: no such table: %s\n", tableName)
		return
	}

	var sb strings.Builder
	sb.WriteString(tbl.Name)
	sb.WriteString("(")
	for i := range tbl.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tbl.Columns[i].Name)
		sb.WriteString(" ")
		sb.WriteString(tbl.Columns[i].Type.String())
	}
	sb.WriteString(")")
	fmt.Fprintln(r.output, sb.String())
}
