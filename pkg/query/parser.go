// pkg/query/parser.go
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

// Markers delimiting a query block on the input stream.
const (
	BlockStart = "query_start"
	BlockEnd   = "query_end"
)

// operator spellings in scan order: two-character operators first so "<="
// is not misread as "<".
var opSpellings = []string{">=", "<=", "!=", "=", ">", "<"}

// Parse decomposes a query block into its components and validates them
// against the catalog. Lines before query_start and after query_end are
// ignored; unknown sections are skipped.
func Parse(lines []string, cat *schema.Catalog) (*QueryComponents, error) {
	qc := &QueryComponents{}
	started := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if line == BlockStart {
			started = true
			continue
		}
		if line == BlockEnd {
			break
		}
		if !started || line == "" {
			continue
		}

		section, content, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		content = strings.TrimSpace(content)

		switch section {
		case "tables":
			qc.Tables = append(qc.Tables, splitAndTrim(content)...)
		case "scalar_filters":
			for _, item := range splitAndTrim(content) {
				f, err := parseScalarFilter(item, cat)
				if err != nil {
					return nil, err
				}
				qc.ScalarFilters = append(qc.ScalarFilters, f)
			}
		case "dynamic_filters":
			for _, item := range splitAndTrim(content) {
				lhsTable, lhsColumn, rhsTable, rhsColumn, err := parseColumnPair(item)
				if err != nil {
					return nil, err
				}
				qc.DynamicFilters = append(qc.DynamicFilters, DynamicFilter{
					LhsTable:  lhsTable,
					LhsColumn: lhsColumn,
					Op:        types.OpEquals,
					RhsTable:  rhsTable,
					RhsColumn: rhsColumn,
				})
			}
		case "joins":
			for _, item := range splitAndTrim(content) {
				lhsTable, lhsColumn, rhsTable, rhsColumn, err := parseColumnPair(item)
				if err != nil {
					return nil, err
				}
				qc.Joins = append(qc.Joins, Join{
					LhsTable:  lhsTable,
					LhsColumn: lhsColumn,
					Op:        types.OpEquals,
					RhsTable:  rhsTable,
					RhsColumn: rhsColumn,
				})
			}
		}
	}

	if err := qc.Validate(cat); err != nil {
		return nil, err
	}
	return qc, nil
}

// parseScalarFilter parses "table.column OP literal".
func parseScalarFilter(item string, cat *schema.Catalog) (ScalarFilter, error) {
	for _, spelling := range opSpellings {
		opPos := strings.Index(item, spelling)
		if opPos < 0 {
			continue
		}

		lhs := item[:opPos]
		rawValue := strings.TrimSpace(item[opPos+len(spelling):])

		table, column, err := parseTableColumn(lhs)
		if err != nil {
			return ScalarFilter{}, err
		}
		op, err := types.ParseOp(spelling)
		if err != nil {
			return ScalarFilter{}, err
		}

		return ScalarFilter{
			Table:  table,
			Column: column,
			Op:     op,
			Value:  parseLiteral(rawValue, table, column, cat),
		}, nil
	}
	return ScalarFilter{}, fmt.Errorf("no operator in scalar filter: %q", item)
}

// parseLiteral types a literal. When the target column is known its type
// decides; a literal an integer column cannot hold falls back to text so the
// mismatch is reported by validation rather than as a parse failure.
func parseLiteral(raw, table, column string, cat *schema.Catalog) types.Value {
	var wantInteger bool
	if tbl, err := cat.GetTable(table); err == nil {
		if typ, err := tbl.ColumnType(column); err == nil {
			wantInteger = typ == types.TypeInteger
		} else if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			wantInteger = true
		}
	} else if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		wantInteger = true
	}

	if wantInteger {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return types.NewInteger(n)
		}
	}
	return types.NewText(raw)
}

// parseColumnPair parses "t1.c1 = t2.c2" (equality only).
func parseColumnPair(item string) (lhsTable, lhsColumn, rhsTable, rhsColumn string, err error) {
	lhs, rhs, ok := strings.Cut(item, "=")
	if !ok {
		return "", "", "", "", fmt.Errorf("expected t1.c1 = t2.c2, got %q", item)
	}
	lhsTable, lhsColumn, err = parseTableColumn(lhs)
	if err != nil {
		return "", "", "", "", err
	}
	rhsTable, rhsColumn, err = parseTableColumn(rhs)
	if err != nil {
		return "", "", "", "", err
	}
	return lhsTable, lhsColumn, rhsTable, rhsColumn, nil
}

// parseTableColumn parses "table.column".
func parseTableColumn(s string) (string, string, error) {
	table, column, ok := strings.Cut(s, ".")
	if !ok {
		return "", "", fmt.Errorf("invalid table.column format: %q", strings.TrimSpace(s))
	}
	return strings.TrimSpace(table), strings.TrimSpace(column), nil
}

// splitAndTrim splits a comma-separated list, trimming items and dropping
// empty ones.
func splitAndTrim(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
