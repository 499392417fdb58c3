// cmd/qoshell/main.go
//
// qoshell - interactive shell for the query planning engine.
//
// Usage:
//
//	qoshell <schema-file> <data-dir>
//
// Loads the schema and one pipe-delimited <table>.txt per declared table,
// then reads query_start/query_end blocks from stdin. Use .help for the
// block format.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hershd23/query-optimization/pkg/cli"
	"github.com/hershd23/query-optimization/pkg/loader"
	"github.com/hershd23/query-optimization/pkg/schema"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: qoshell <schema-file> <data-dir>")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cat := schema.NewCatalog()
	if err := loader.LoadDir(cat, os.Args[1], os.Args[2], logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "tables", len(cat.ListTables()))

	repl := cli.NewREPL(cat, os.Stdin, os.Stdout, os.Stderr, logger)
	repl.Shell().SetInteractive(cli.IsTerminal(os.Stdin))
	repl.Run()
}
