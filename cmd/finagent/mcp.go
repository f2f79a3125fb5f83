package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paydesk/finagent/internal/config"
	"github.com/paydesk/finagent/internal/logger"
	"github.com/paydesk/finagent/internal/mcp"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the finance tools over stdio (MCP)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Stdout carries the protocol; logs go to stderr.
			log := logger.New()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info().Msg("shutting down")
				cancel()
			}()

			sessionID := os.Getenv("FINAGENT_SESSION_ID")
			if sessionID == "" {
				sessionID = uuid.New().String()
			}

			registry, store, err := buildRegistry(cfg, sessionID)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			server := mcp.NewServer(registry, log)
			if err := server.Run(ctx); err != nil && err != context.Canceled {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
