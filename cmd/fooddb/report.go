package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_delivery/internal/service"
)

type reportOptions struct {
	minPrice   float64
	email      string
	minOrders  int
	top        int
	skipUpdate bool
}

func defaultReportOptions() reportOptions {
	return reportOptions{
		minPrice:  service.DefaultMinPrice,
		email:     "mario.rossi@email.com",
		minOrders: service.DefaultMinOrders,
		top:       service.DefaultTopDishes,
	}
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.minPrice, "min-price", o.minPrice, "list dishes priced above this")
	cmd.Flags().StringVar(&o.email, "email", o.email, "customer whose order history is printed")
	cmd.Flags().IntVar(&o.minOrders, "min-orders", o.minOrders, "smallest order count of a repeat customer")
	cmd.Flags().IntVar(&o.top, "top", o.top, "number of dishes in the volume ranking")
	cmd.Flags().BoolVar(&o.skipUpdate, "skip-update", o.skipUpdate, "do not complete the next preparing order")
}

func makeReportCommand(root *rootOptions) *cobra.Command {
	opts := defaultReportOptions()
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the collection counts and run the standard queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root.cfg, root.logger)
			if err != nil {
				return err
			}
			defer a.close(root.logger)
			return writeReport(cmd.Context(), cmd.OutOrStdout(), a.svc, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func writeReport(ctx context.Context, out io.Writer, svc *service.FoodService, opts reportOptions) error {
	v, err := svc.Verify(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "dishes: %d, customers: %d, orders: %d\n", v.Counts.Dishes, v.Counts.Customers, v.Counts.Orders)
	if err := printJSON(out, "first documents", v.Samples); err != nil {
		return err
	}

	dishes, err := svc.ExpensiveDishes(ctx, opts.minPrice)
	if err != nil {
		return fmt.Errorf("dishes above %.2f: %w", opts.minPrice, err)
	}
	if err := printJSON(out, fmt.Sprintf("dishes priced above %.2f (%d)", opts.minPrice, len(dishes)), dishes); err != nil {
		return err
	}

	orders, err := svc.CustomerOrders(ctx, opts.email)
	if err != nil {
		return fmt.Errorf("orders of %s: %w", opts.email, err)
	}
	if err := printJSON(out, fmt.Sprintf("orders of %s (%d)", opts.email, len(orders)), orders); err != nil {
		return err
	}

	if !opts.skipUpdate {
		n, err := svc.CompleteNextPreparingOrder(ctx)
		if err != nil {
			return fmt.Errorf("complete next order: %w", err)
		}
		fmt.Fprintf(out, "\ncompleted preparing orders: %d\n", n)
	}

	repeat, err := svc.RepeatCustomers(ctx, opts.minOrders)
	if err != nil {
		return fmt.Errorf("repeat customers: %w", err)
	}
	if err := printJSON(out, fmt.Sprintf("customers with at least %d orders", opts.minOrders), repeat); err != nil {
		return err
	}

	top, err := svc.TopDishes(ctx, opts.top)
	if err != nil {
		return fmt.Errorf("top dishes: %w", err)
	}
	return printJSON(out, "most ordered dishes", top)
}

func printJSON(out io.Writer, title string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\n%s:\n%s\n", title, data)
	return err
}
