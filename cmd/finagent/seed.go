package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paydesk/finagent/internal/config"
	"github.com/paydesk/finagent/internal/ledger"
	"github.com/paydesk/finagent/internal/logger"
)

// seedCmd populates a test-mode ledger with a known customer and
// charges: two successful ($50, $25) and one declined ($99.99). These
// are the fixtures the tool walkthroughs assume.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the ledger with demo customer and charges (test mode only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.New()
			client := ledger.New(ledger.Config{
				APIKey:  cfg.Ledger.APIKey,
				BaseURL: cfg.Ledger.BaseURL,
				Logger:  log,
			})

			ctx := cmd.Context()

			customer, err := client.CreateCustomer(ctx, ledger.CreateCustomerParams{
				Email:       "alice_verified@example.com",
				Name:        "Alice Verified",
				Description: "Demo customer for metrics and investigation",
			})
			if err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
			log.Info().Str("customer", customer.ID).Msg("created customer")

			charges := []ledger.CreateChargeParams{
				{Amount: 5000, Currency: "usd", CustomerID: customer.ID, Source: "tok_visa", Description: "Service Fee - Q3"},
				{Amount: 2500, Currency: "usd", CustomerID: customer.ID, Source: "tok_mastercard", Description: "Product Purchase"},
			}
			for _, params := range charges {
				charge, err := client.CreateCharge(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to create charge %q: %w", params.Description, err)
				}
				log.Info().Str("charge", charge.ID).Int64("amount", params.Amount).Msg("created charge")
			}

			// The declined charge is expected to fail; that failure is
			// the fixture for the investigation tool.
			_, err = client.CreateCharge(ctx, ledger.CreateChargeParams{
				Amount:      9999,
				Currency:    "usd",
				CustomerID:  customer.ID,
				Source:      "tok_chargeDeclined",
				Description: "Failed Subscription",
			})
			if err != nil {
				log.Info().Err(err).Msg("declined charge rejected as expected")
			} else {
				log.Warn().Msg("declined charge unexpectedly succeeded")
			}

			log.Info().Msg("seeding complete")
			return nil
		},
	}
}
