// pkg/loader/schema.go
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle"

	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

var (
	ErrFileOpen    = errors.New("could not open file")
	ErrSchemaParse = errors.New("schema parse failed")
	ErrUnknownType = errors.New("unknown column type")
)

// schemaFile is the grammar of a schema file: one table definition per line,
// "table_name(col1 type1, col2 type2, ...)".
type schemaFile struct {
	Tables []*tableDef `{ @@ }`
}

type tableDef struct {
	Name    string       `@Ident "("`
	Columns []*columnDef `@@ { "," @@ } ")"`
}

type columnDef struct {
	Name string `@Ident`
	Type string `@Ident`
}

var schemaParser = func() *participle.Parser {
	p, err := participle.Build(&schemaFile{})
	if err != nil {
		panic(err)
	}
	return p
}()

// LoadSchema parses a schema file and registers one empty table per
// definition. Column types must be "int" or "string".
func LoadSchema(cat *schema.Catalog, filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileOpen, filename, err)
	}

	var file schemaFile
	if err := schemaParser.ParseString(string(content), &file); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaParse, filename, err)
	}

	for _, def := range file.Tables {
		tbl := schema.NewTable(def.Name)
		for _, col := range def.Columns {
			switch col.Type {
			case "int":
				tbl.AddColumn(col.Name, def.Name, types.TypeInteger)
			case "string":
				tbl.AddColumn(col.Name, def.Name, types.TypeText)
			default:
				return fmt.Errorf("%w: %s (column %s of table %s)",
					ErrUnknownType, col.Type, col.Name, def.Name)
			}
		}
		cat.AddTable(def.Name, tbl)
	}

	return nil
}
