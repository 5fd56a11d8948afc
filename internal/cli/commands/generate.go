package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fathomdata/saasforge/internal/dataset"
	"github.com/fathomdata/saasforge/internal/gen"
	"github.com/fathomdata/saasforge/internal/schema"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic SaaS dataset as CSV artifacts",
		Long: `Generate a relationally consistent synthetic SaaS dataset.

Accounts, users, subscriptions, invoices, and feature usage events are
produced with valid cross-references and written as CSV files to the data
directory, along with a manifest describing the run. The same seed always
reproduces the same dataset.`,
		Example: `  # Generate with defaults (120 accounts, 6 months, seed 42)
  saasforge generate

  # A larger dataset with a different seed
  saasforge generate --accounts 1000 --months 12 --seed 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd)
		},
	}

	cmd.Flags().Int("accounts", 0, "Number of accounts to generate")
	cmd.Flags().Int("months", 0, "Number of subscription periods per account")
	cmd.Flags().Uint64("seed", 0, "Random seed (same seed reproduces the same dataset)")

	return cmd
}

func runGenerate(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	// Local flags override the resolved config only when set explicitly.
	accounts, months, seed := cfg.Accounts, cfg.Months, cfg.Seed
	if cmd.Flags().Changed("accounts") {
		accounts, _ = cmd.Flags().GetInt("accounts")
	}
	if cmd.Flags().Changed("months") {
		months, _ = cmd.Flags().GetInt("months")
	}
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	if accounts < 0 || months < 0 {
		return fmt.Errorf("accounts and months must not be negative (got %d, %d)", accounts, months)
	}

	cmdCtx.Logger.Debug("generating dataset",
		"accounts", accounts, "months", months, "seed", seed, "data_dir", cfg.DataDir)

	ds := gen.New(gen.Config{
		Accounts: accounts,
		Months:   months,
		Seed:     seed,
		Now:      time.Now(),
	}).Generate()

	counts, err := dataset.WriteAll(cfg.DataDir, ds)
	if err != nil {
		return err
	}

	manifest := dataset.NewManifest(seed, accounts, months, counts)
	if err := dataset.WriteManifest(cfg.DataDir, manifest); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	order, err := schema.CreateOrder()
	if err != nil {
		return err
	}
	for _, t := range order {
		_, _ = fmt.Fprintf(out, "Wrote %s (%d rows)\n",
			filepath.Join(cfg.DataDir, t.CSVFile()), counts[t.Name])
	}
	_, _ = fmt.Fprintf(out, "Wrote %s (run %s)\n",
		filepath.Join(cfg.DataDir, dataset.ManifestFile), manifest.RunID)
	return nil
}
