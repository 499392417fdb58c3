// pkg/cli/cli_test.go
package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

func testCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	cat := schema.NewCatalog()

	movie := schema.NewTable("movie")
	movie.AddColumn("id", "movie", types.TypeInteger)
	movie.AddColumn("name", "movie", types.TypeText)
	for _, row := range [][]types.Value{
		{types.NewInteger(8854), types.NewText("Top Gun")},
		{types.NewInteger(100), types.NewText("Big")},
	} {
		if err := movie.AddRow(row); err != nil {
			t.Fatalf("AddRow: %v", err)
		}
	}
	movie.RecomputeIntegerHistograms()
	cat.AddTable("movie", movie)

	casts := schema.NewTable("casts")
	casts.AddColumn("mid", "casts", types.TypeInteger)
	casts.AddColumn("aid", "casts", types.TypeInteger)
	for _, row := range [][]types.Value{
		{types.NewInteger(8854), types.NewInteger(1)},
		{types.NewInteger(100), types.NewInteger(2)},
	} {
		if err := casts.AddRow(row); err != nil {
			t.Fatalf("AddRow: %v", err)
		}
	}
	casts.RecomputeIntegerHistograms()
	cat.AddTable("casts", casts)

	return cat
}

// TestShell_ReadBlock tests block framing on query_end
func TestShell_ReadBlock(t *testing.T) {
	input := "query_start\ntables: movie\nquery_end\n"
	s := NewShell(strings.NewReader(input), nil)

	lines, quit, eof := s.ReadBlock()
	if quit {
		t.Fatal("unexpected quit")
	}
	if eof {
		t.Fatal("unexpected eof")
	}
	if len(lines) != 3 || lines[0] != "query_start" || lines[2] != "query_end" {
		t.Errorf("lines = %q", lines)
	}

	if got := s.History(); len(got) != 1 {
		t.Errorf("history = %q, want one block", got)
	}
}

// TestShell_Quit tests the quit word
func TestShell_Quit(t *testing.T) {
	s := NewShell(strings.NewReader("quit\n"), nil)
	_, quit, _ := s.ReadBlock()
	if !quit {
		t.Fatal("expected quit")
	}
}

// TestShell_EOF tests stream exhaustion mid-block
func TestShell_EOF(t *testing.T) {
	s := NewShell(strings.NewReader("query_start\ntables: movie\n"), nil)
	lines, quit, eof := s.ReadBlock()
	if quit || !eof {
		t.Fatalf("quit=%v eof=%v, want false/true", quit, eof)
	}
	if len(lines) != 2 {
		t.Errorf("lines = %q", lines)
	}
}

// TestShell_Prompts tests prompt printing and suppression
func TestShell_Prompts(t *testing.T) {
	var out bytes.Buffer
	s := NewShell(strings.NewReader("query_start\nquery_end\n"), &out)
	s.ReadBlock()
	if got := out.String(); got != "qo> ...> " {
		t.Errorf("prompts = %q", got)
	}

	out.Reset()
	s = NewShell(strings.NewReader("query_start\nquery_end\n"), &out)
	s.SetInteractive(false)
	s.ReadBlock()
	if out.Len() != 0 {
		t.Errorf("prompts shown when non-interactive: %q", out.String())
	}
}

// TestRenderTable tests the ASCII renderer
func TestRenderTable(t *testing.T) {
	cat := testCatalog(t)
	movie, _ := cat.GetTable("movie")

	var out bytes.Buffer
	RenderTable(&out, movie)
	got := out.String()

	if !strings.Contains(got, "movie.id") || !strings.Contains(got, "movie.name") {
		t.Errorf("missing qualified headers:\n%s", got)
	}
	if !strings.Contains(got, "Top Gun") {
		t.Errorf("missing row data:\n%s", got)
	}
	if !strings.Contains(got, "2 row(s)") {
		t.Errorf("missing row count:\n%s", got)
	}

	// Every line of the table body has the same width.
	var widths []int
	for _, line := range strings.Split(strings.TrimSpace(got), "\n") {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "|") {
			widths = append(widths, len(line))
		}
	}
	for _, w := range widths {
		if w != widths[0] {
			t.Errorf("ragged table:\n%s", got)
			break
		}
	}
}

// TestREPL_EndToEnd runs a filtered join through the full loop
func TestREPL_EndToEnd(t *testing.T) {
	cat := testCatalog(t)
	input := strings.NewReader(
		"query_start\n" +
			"tables: movie, casts\n" +
			"scalar_filters: movie.id = 8854\n" +
			"joins: movie.id = casts.mid\n" +
			"query_end\n" +
			"quit\n")

	var out, errOut bytes.Buffer
	r := NewREPL(cat, input, &out, &errOut, nil)
	r.Shell().SetInteractive(false)
	r.Run()

	got := out.String()
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errOut.String())
	}

	for _, want := range []string{
		"=== Query Components ===",
		"Plan Type: JoinsFirst",
		"Plan Type: FiltersFirst",
		"Plan Type: TryAllJoinOrders",
		"Plan Type: GreedyJoin",
		"Plan Type: DPJoin",
		"=== Execution Time Summary ===",
		"Best Plan Selected:",
		"1 row(s)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestREPL_ErrorResumes tests that a bad query prints and the loop continues
func TestREPL_ErrorResumes(t *testing.T) {
	cat := testCatalog(t)
	input := strings.NewReader(
		"query_start\ntables: producer\nquery_end\n" +
			"query_start\ntables: movie\nquery_end\n" +
			"quit\n")

	var out, errOut bytes.Buffer
	r := NewREPL(cat, input, &out, &errOut, nil)
	r.Shell().SetInteractive(false)
	r.Run()

	if !strings.Contains(errOut.String(), "table not found") {
		t.Errorf("error output = %q", errOut.String())
	}
	// The second, valid query still planned.
	if !strings.Contains(out.String(), "Plan Type: FiltersFirst") {
		t.Error("REPL did not resume after the failed query")
	}
}

// TestREPL_DotCommands tests .tables and .schema
func TestREPL_DotCommands(t *testing.T) {
	cat := testCatalog(t)
	input := strings.NewReader(".tables\n.schema movie\n.exit\n")

	var out, errOut bytes.Buffer
	r := NewREPL(cat, input, &out, &errOut, nil)
	r.Shell().SetInteractive(false)
	r.Run()

	got := out.String()
	if !strings.Contains(got, "casts\nmovie") {
		t.Errorf(".tables output missing sorted names:\n%s", got)
	}
	if !strings.Contains(got, "movie(id int, name string)") {
		t.Errorf(".schema output:\n%s", got)
	}
}
