// pkg/loader/data.go
package loader

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hershd23/query-optimization/pkg/schema"
	"github.com/hershd23/query-optimization/pkg/types"
)

// LoadTableData reads a pipe-delimited data file into an already-declared
// table and recomputes its integer histograms. Fields are trimmed; empty
// integer fields load as 0. Rows whose field count disagrees with the schema
// are loaded anyway — missing fields padded with the column type's zero
// value, extras dropped — and logged.
func LoadTableData(cat *schema.Catalog, tableName, filename string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	tbl, err := cat.GetTable(tableName)
	if err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileOpen, filename, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != len(tbl.Columns) {
			logger.Warn("row field count disagrees with schema",
				"table", tableName, "file", filename, "line", lineNo,
				"fields", len(fields), "columns", len(tbl.Columns))
		}

		row := make([]types.Value, 0, len(tbl.Columns))
		for i := range tbl.Columns {
			value := ""
			if i < len(fields) {
				value = strings.TrimSpace(fields[i])
			}

			switch tbl.Columns[i].Type {
			case types.TypeInteger:
				if value == "" {
					row = append(row, types.NewInteger(0))
					break
				}
				n, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return fmt.Errorf("converting value %q to integer at column %d in file %s: %w",
						value, i, filename, err)
				}
				row = append(row, types.NewInteger(n))
			case types.TypeText:
				row = append(row, types.NewText(value))
			}
		}

		if err := tbl.AddRow(row); err != nil {
			return fmt.Errorf("loading %s line %d: %w", filename, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	tbl.RecomputeIntegerHistograms()
	return nil
}

// LoadDir loads a schema file and then every declared table's data file
// (<table>.txt under dataDir). Tables load concurrently; each goroutine
// owns its table, so no locking is needed.
func LoadDir(cat *schema.Catalog, schemaFile, dataDir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := LoadSchema(cat, schemaFile); err != nil {
		return err
	}

	var g errgroup.Group
	for _, tableName := range cat.ListTables() {
		tableName := tableName
		g.Go(func() error {
			dataFile := filepath.Join(dataDir, tableName+".txt")
			logger.Info("loading data", "table", tableName, "file", dataFile)
			if err := LoadTableData(cat, tableName, dataFile, logger); err != nil {
				return err
			}
			size, _ := cat.TableSize(tableName)
			logger.Info("table loaded", "table", tableName, "rows", size)
			return nil
		})
	}
	return g.Wait()
}
