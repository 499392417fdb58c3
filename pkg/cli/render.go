// pkg/cli/render.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hershd23/query-optimization/pkg/schema"
)

// maxRenderedRows caps table output so huge results stay readable.
const maxRenderedRows = 1000

// RenderTable writes a table as ASCII art with base_table.column qualified
// headers. At most maxRenderedRows rows are printed.
func RenderTable(w io.Writer, tbl *schema.Table) {
	if tbl == nil {
		fmt.Fprintln(w, "(no result)")
		return
	}

	headers := make([]string, len(tbl.Columns))
	widths := make([]int, len(tbl.Columns))
	for i := range tbl.Columns {
		headers[i] = tbl.Columns[i].BaseTable + "." + tbl.Columns[i].Name
		widths[i] = len(headers[i])
	}

	rowsToShow := len(tbl.Rows)
	if rowsToShow > maxRenderedRows {
		rowsToShow = maxRenderedRows
	}

	for _, row := range tbl.Rows[:rowsToShow] {
		for i, v := range row {
			if i < len(widths) && len(v.String()) > widths[i] {
				widths[i] = len(v.String())
			}
		}
	}

	printSeparator(w, widths)
	printCells(w, headers, widths)
	printSeparator(w, widths)
	for _, row := range tbl.Rows[:rowsToShow] {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		printCells(w, cells, widths)
	}
	printSeparator(w, widths)

	if len(tbl.Rows) > maxRenderedRows {
		fmt.Fprintf(w, "... and %d more rows\n", len(tbl.Rows)-maxRenderedRows)
	}
	fmt.Fprintf(w, "%d row(s)\n", len(tbl.Rows))
}

func printSeparator(w io.Writer, widths []int) {
	fmt.Fprint(w, "+")
	for _, width := range widths {
		fmt.Fprint(w, strings.Repeat("-", width+2))
		fmt.Fprint(w, "+")
	}
	fmt.Fprintln(w)
}

func printCells(w io.Writer, cells []string, widths []int) {
	fmt.Fprint(w, "|")
	for i, cell := range cells {
		fmt.Fprintf(w, " %-*s |", widths[i], cell)
	}
	fmt.Fprintln(w)
}
