// pkg/loader/loader_test.go
package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	return path
}

// TestLoadSchema tests schema-file parsing into catalog tables
func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "schema.txt",
		"actor(id int, fname string, lname string)\n"+
			"movie(id int, name string, year int)\n"+
			"casts(mid int, aid int)\n")

	cat := schema.NewCatalog()
	if err := LoadSchema(cat, path); err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}

	actor, err := cat.GetTable("actor")
	if err != nil {
		t.Fatalf("GetTable(actor): %v", err)
	}
	if len(actor.Columns) != 3 {
		t.Fatalf("actor has %d columns, want 3", len(actor.Columns))
	}
	if actor.Columns[0].Name != "id" || actor.Columns[0].Type != types.TypeInteger {
		t.Errorf("actor.Columns[0] = %+v", actor.Columns[0])
	}
	if actor.Columns[1].Name != "fname" || actor.Columns[1].Type != types.TypeText {
		t.Errorf("actor.Columns[1] = %+v", actor.Columns[1])
	}
	if actor.Columns[0].BaseTable != "actor" {
		t.Errorf("column base table = %q, want actor", actor.Columns[0].BaseTable)
	}

	// Declared position round-trips through ColumnIndex.
	idx, err := actor.ColumnIndex("lname", "actor")
	if err != nil || idx != 2 {
		t.Errorf("ColumnIndex(lname) = (%d, %v), want (2, nil)", idx, err)
	}
}

// TestLoadSchema_Errors tests the loader error kinds
func TestLoadSchema_Errors(t *testing.T) {
	dir := t.TempDir()
	cat := schema.NewCatalog()

	if err := LoadSchema(cat, filepath.Join(dir, "missing.txt")); !errors.Is(err, ErrFileOpen) {
		t.Errorf("expected ErrFileOpen, got %v", err)
	}

	badType := writeFile(t, dir, "badtype.txt", "actor(id float)\n")
	if err := LoadSchema(cat, badType); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}

	malformed := writeFile(t, dir, "malformed.txt", "actor(id int\n")
	if err := LoadSchema(cat, malformed); !errors.Is(err, ErrSchemaParse) {
		t.Errorf("expected ErrSchemaParse, got %v", err)
	}
}

// TestLoadTableData tests row ingestion, trimming and histogram recompute
func TestLoadTableData(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.txt", "actor(id int, fname string, lname string)\n")
	dataPath := writeFile(t, dir, "actor.txt",
		"1|Tom|Cruise\n"+
			" 2 | Tom | Hanks \n"+
			"\n"+ // blank line skipped
			"|Empty|Id\n") // empty integer field loads as 0

	cat := schema.NewCatalog()
	if err := LoadSchema(cat, schemaPath); err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if err := LoadTableData(cat, "actor", dataPath, nil); err != nil {
		t.Fatalf("LoadTableData: %v", err)
	}

	actor, _ := cat.GetTable("actor")
	if actor.Size() != 3 {
		t.Fatalf("actor has %d rows, want 3", actor.Size())
	}
	if actor.Rows[1][0].Int() != 2 || actor.Rows[1][2].Text() != "Hanks" {
		t.Errorf("row 1 = %v, fields not trimmed", actor.Rows[1])
	}
	if actor.Rows[2][0].Int() != 0 {
		t.Errorf("empty integer field = %v, want 0", actor.Rows[2][0])
	}

	// Histograms were recomputed over the loaded ids 1, 2, 0.
	hist := actor.Columns[0].Histogram()
	if hist.Total() != 3 {
		t.Errorf("histogram total = %d, want 3", hist.Total())
	}
	lo, hi := hist.Bounds()
	if lo != 0 || hi != 2 {
		t.Errorf("histogram bounds = (%d, %d), want (0, 2)", lo, hi)
	}
}

// TestLoadTableData_ShortRow tests padding of rows with missing fields
func TestLoadTableData_ShortRow(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.txt", "movie(id int, name string, year int)\n")
	dataPath := writeFile(t, dir, "movie.txt",
		"1|Top Gun|1986\n"+
			"2|Big\n"+ // missing year
			"3|Cast Away|2000|extra\n") // surplus field dropped

	cat := schema.NewCatalog()
	if err := LoadSchema(cat, schemaPath); err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if err := LoadTableData(cat, "movie", dataPath, nil); err != nil {
		t.Fatalf("LoadTableData: %v", err)
	}

	movie, _ := cat.GetTable("movie")
	if movie.Size() != 3 {
		t.Fatalf("movie has %d rows, want 3", movie.Size())
	}
	if movie.Rows[1][2].Int() != 0 {
		t.Errorf("padded year = %v, want 0", movie.Rows[1][2])
	}
	if len(movie.Rows[2]) != 3 {
		t.Errorf("surplus row has %d fields, want 3", len(movie.Rows[2]))
	}
}

// TestLoadDir tests concurrent loading of every declared table
func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.txt",
		"actor(id int, lname string)\nmovie(id int, name string)\n")
	writeFile(t, dir, "actor.txt", "1|Cruise\n2|Hanks\n")
	writeFile(t, dir, "movie.txt", "10|Top Gun\n")

	cat := schema.NewCatalog()
	if err := LoadDir(cat, schemaPath, dir, nil); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	for name, want := range map[string]int{"actor": 2, "movie": 1} {
		size, err := cat.TableSize(name)
		if err != nil || size != want {
			t.Errorf("TableSize(%s) = (%d, %v), want (%d, nil)", name, size, err, want)
		}
	}
}

// TestLoadDir_MissingDataFile tests the failure path
func TestLoadDir_MissingDataFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.txt", "actor(id int)\n")

	cat := schema.NewCatalog()
	if err := LoadDir(cat, schemaPath, dir, nil); !errors.Is(err, ErrFileOpen) {
		t.Errorf("expected ErrFileOpen, got %v", err)
	}
}
