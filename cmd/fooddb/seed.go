package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_delivery/internal/seed"
	"github.com/Skotchmaster/food_delivery/internal/service"
)

type seedOptions struct {
	reset   bool
	fixture string
}

func makeSeedCommand(root *rootOptions) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample dishes, customers and orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root.cfg, root.logger)
			if err != nil {
				return err
			}
			defer a.close(root.logger)
			return runSeed(cmd.Context(), cmd.OutOrStdout(), a.svc, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "empty every collection before loading")
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "YAML fixture to load instead of the built-in sample data")
	return cmd
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}

func runSeed(ctx context.Context, out io.Writer, svc *service.FoodService, opts seedOptions) error {
	f, err := loadFixture(opts.fixture)
	if err != nil {
		return err
	}

	res, err := svc.Seed(ctx, f, service.SeedOptions{Reset: opts.reset})
	if res != nil {
		fmt.Fprintf(out, "inserted %d dishes, %d customers, %d orders\n", res.Dishes, res.Customers, res.Orders)
	}
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
