package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paydesk/finagent/internal/audit"
	"github.com/paydesk/finagent/internal/config"
	"github.com/paydesk/finagent/internal/finance"
	"github.com/paydesk/finagent/internal/ledger"
	"github.com/paydesk/finagent/internal/logger"
	"github.com/paydesk/finagent/internal/tools"
	"github.com/paydesk/finagent/internal/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the finance tools over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log := logger.New()
			if cfg.Ledger.APIKey == "" {
				log.Warn().Msg("ledger API key not set; upstream calls will fail")
			}

			registry, store, err := buildRegistry(cfg, uuid.New().String())
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			server := web.NewServer(registry, log)
			return server.Run(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (overrides config)")

	return cmd
}

// buildRegistry wires the ledger client, engine, audit store, and tool
// registry from configuration. The audit store is optional: a failure
// to open it degrades to an unrecorded registry rather than refusing
// to start.
func buildRegistry(cfg *config.Config, sessionID string) (*tools.Registry, *audit.Store, error) {
	log := logger.New()

	client := ledger.New(ledger.Config{
		APIKey:  cfg.Ledger.APIKey,
		BaseURL: cfg.Ledger.BaseURL,
		Logger:  log,
	})

	engine := finance.New(client, log, finance.Options{PageSize: cfg.Ledger.PageSize})

	var recorder tools.Recorder
	store, err := audit.NewStore(cfg.Audit.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("audit store unavailable; invocations will not be recorded")
		store = nil
	} else {
		recorder = store
	}

	return tools.NewRegistry(engine, recorder, sessionID, log), store, nil
}
