package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fathomdata/saasforge/internal/loader"
	"github.com/fathomdata/saasforge/internal/schema"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load generated CSV artifacts into the store",
		Long: `Load the generated CSV artifacts into the relational store.

Existing tables are dropped and recreated, then each table is bulk-inserted
inside its own transaction, parents before children so foreign keys hold at
every step. Loading the same artifacts twice yields the same store.`,
		Example: `  # Load into the default store
  saasforge load

  # Load into a specific database file
  saasforge load --database /tmp/saas.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd)
		},
	}
}

func runLoad(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)

	db, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	counts, err := loader.New(db, cmdCtx.Cfg.DataDir, cmdCtx.Logger).Run(cmd.Context())
	if err != nil {
		return err
	}

	order, err := schema.CreateOrder()
	if err != nil {
		return err
	}
	for _, t := range order {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d rows into %s\n", counts[t.Name], t.Name)
	}
	return nil
}
