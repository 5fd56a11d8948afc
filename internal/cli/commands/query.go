package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fathomdata/saasforge/internal/report"
	"github.com/fathomdata/saasforge/internal/store"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the loaded store",
		Long: `Execute SQL queries against the loaded store.

Inspect the generated tables directly, beyond what the canned report
covers. Supports multiple output formats for scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  saasforge query "SELECT plan, count(*) FROM accounts GROUP BY plan"

  # Output as JSON
  saasforge query "SELECT * FROM invoices LIMIT 5" --format json

  # Read SQL from a file
  saasforge query --input monthly.sql

  # Interactive mode
  saasforge query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	if cfg.Database != store.Memory && !store.Exists(cfg.Database) {
		return fmt.Errorf("no database at %s (run 'saasforge load' first)", cfg.Database)
	}

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, opts)
	}

	db, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res, err := report.Query(cmd.Context(), db, sqlQuery)
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), res, opts.Format)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
