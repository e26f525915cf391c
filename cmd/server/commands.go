package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sidedish/internal/config"
	"github.com/example/sidedish/internal/logging"
	"github.com/example/sidedish/internal/server"
	"github.com/example/sidedish/pkg/storefront"
)

// sidedish serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.New(cfg.AppEnv, cfg.LogLevel)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := server.Build(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("startup: %w", err)
		}
		return srv.Run(ctx)
	},
}

// sidedish seed-admin: create the default admin account if needed.
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the default admin account when the users collection is empty",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.New(cfg.AppEnv, cfg.LogLevel)

		seeded, err := server.SeedAdmin(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded admin account %s\n", cfg.SeedAdminEmail)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Users already present, nothing to do")
		}
		return nil
	},
}

var quoteFlags struct {
	city   string
	option string
	total  float64
}

// sidedish quote: price delivery the way the checkout page does.
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Show the delivery fee and payment options for a cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := storefront.QuoteDelivery(quoteFlags.city, quoteFlags.option, quoteFlags.total)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Delivery fee\t%s\n", q.Label)
		fmt.Fprintf(w, "Available\t%t\n", q.Available)
		fmt.Fprintf(w, "Cash on delivery\t%t\n", q.CashOnDelivery)
		fmt.Fprintf(w, "Card payment\t%t\n", q.CardPayment)
		fmt.Fprintf(w, "Grand total\t%s\n", storefront.FormatNaira(q.GrandTotal))
		return w.Flush()
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteFlags.city, "city", storefront.DeliveryCity, "delivery city")
	quoteCmd.Flags().StringVar(&quoteFlags.option, "option", storefront.DeliveryDelivery, "pickup or delivery")
	quoteCmd.Flags().Float64Var(&quoteFlags.total, "total", 0, "cart total in NGN")
}
