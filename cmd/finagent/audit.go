package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paydesk/finagent/internal/audit"
	"github.com/paydesk/finagent/internal/config"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent tool invocations from the audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := audit.NewStore(cfg.Audit.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open audit store: %w", err)
			}
			defer store.Close()

			invocations, err := store.ListRecent(limit)
			if err != nil {
				return fmt.Errorf("failed to list invocations: %w", err)
			}

			if len(invocations) == 0 {
				fmt.Println("No recorded invocations.")
				return nil
			}

			for _, inv := range invocations {
				outcome := "ok"
				if !inv.Success {
					outcome = "error: " + inv.Error
				}
				fmt.Printf("%s  %-28s %5dms  %s\n",
					inv.StartedAt.Format("2006-01-02 15:04:05"),
					inv.Tool,
					inv.DurationMS,
					outcome,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum invocations to show")

	return cmd
}
