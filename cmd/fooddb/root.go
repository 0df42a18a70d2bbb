package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_delivery/pkg/config"
	"github.com/Skotchmaster/food_delivery/pkg/logging"
)

type rootOptions struct {
	envFile string
	cfg     config.Config
	logger  *slog.Logger
}

func makeRootCommand() *cobra.Command {
	opts := &rootOptions{}

	command := &cobra.Command{
		Use:   "fooddb [command] (flags)",
		Short: "fooddb sets up and queries the food delivery document store.",
		Long: `fooddb creates the dishes, customers and orders collections with their
validators and indexes, loads the sample data and runs the standard queries.

Typical usage:
    fooddb run
        Create the collections, reload the sample data and print the report.

    fooddb serve
        Expose the queries over HTTP.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(opts.envFile); err != nil {
				return err
			}
			opts.cfg = config.Load()
			opts.logger = logging.NewWithWriter(os.Stderr, opts.cfg.LogLevel).With("service", opts.cfg.ServiceName)
			slog.SetDefault(opts.logger)
			cmd.SetContext(logging.IntoContext(cmd.Context(), opts.logger))
			return nil
		},
	}
	command.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	command.AddCommand(makeMigrateCommand(opts))
	command.AddCommand(makeSeedCommand(opts))
	command.AddCommand(makeReportCommand(opts))
	command.AddCommand(makeRunCommand(opts))
	command.AddCommand(makeServeCommand(opts))
	command.AddCommand(makeTokenCommand(opts))
	return command
}
