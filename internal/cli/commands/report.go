package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fathomdata/saasforge/internal/report"
	"github.com/fathomdata/saasforge/internal/store"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the monthly revenue segmentation report",
		Long: `Run the monthly revenue segmentation report against a loaded store.

The report aggregates subscription periods by month, plan, and region:
active recurring revenue per segment and the number of churned periods.
Months ascend, so consecutive rows for a segment show its month-over-month
movement. The store must have been populated by 'saasforge load' first.`,
		Example: `  # Render as a table
  saasforge report

  # Machine-readable output
  saasforge report --format json
  saasforge report --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd)
		},
	}

	cmd.Flags().StringP("format", "f", "", "Output format: table, json, csv, md")

	return cmd
}

func runReport(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}

	// A file-backed store that was never created is the same failure as an
	// empty one: the loader has not run.
	if cfg.Database != store.Memory && !store.Exists(cfg.Database) {
		return fmt.Errorf("%w: no database at %s (run 'saasforge load' first)",
			report.ErrStoreNotReady, cfg.Database)
	}

	db, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res, err := report.Run(cmd.Context(), db)
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), res, format)
}
