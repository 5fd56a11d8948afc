package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command, the generate-load-report pipeline.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate, load, and report in one step",
		Long: `Run the full pipeline: generate a dataset, load it into the store,
and render the monthly revenue segmentation report.

Equivalent to running 'saasforge generate', 'saasforge load', and
'saasforge report' in sequence. The pipeline stops at the first failure.`,
		Example: `  # Full pipeline with defaults
  saasforge run

  # Larger dataset, JSON report
  saasforge run --accounts 500 --months 12 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd)
		},
	}

	cmd.Flags().Int("accounts", 0, "Number of accounts to generate")
	cmd.Flags().Int("months", 0, "Number of subscription periods per account")
	cmd.Flags().Uint64("seed", 0, "Random seed (same seed reproduces the same dataset)")
	cmd.Flags().StringP("format", "f", "", "Output format: table, json, csv, md")

	return cmd
}

func runPipeline(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if err := runGenerate(cmd); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	_, _ = fmt.Fprintln(out)

	if err := runLoad(cmd); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	_, _ = fmt.Fprintln(out)

	if err := runReport(cmd); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
