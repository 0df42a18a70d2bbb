package main

import (
	"github.com/spf13/cobra"
)

func makeRunCommand(root *rootOptions) *cobra.Command {
	opts := defaultReportOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the collections, reload the sample data and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, root.cfg, root.logger)
			if err != nil {
				return err
			}
			defer a.close(root.logger)

			out := cmd.OutOrStdout()
			if err := runSeed(ctx, out, a.svc, seedOptions{reset: true}); err != nil {
				return err
			}
			return writeReport(ctx, out, a.svc, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}
