package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/grove-ai/grove/pkg/budget"
	"github.com/grove-ai/grove/pkg/config"
	"github.com/grove-ai/grove/pkg/ledger"
	"github.com/grove-ai/grove/pkg/mcp"
	"github.com/grove-ai/grove/pkg/worker"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		secretsPath string
		dbPath      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(secretsPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			led, err := ledger.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init ledger: %w", err)
			}
			defer func() { _ = led.Close() }()

			client := worker.New(cfg)
			enforcer := budget.New(cfg.CostLimits, led)
			srv := mcp.New(client, led, enforcer, version)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Logs go to stderr; stdout carries the JSON-RPC stream.
			log.Printf("grove serving MCP on stdio, ledger at %s", cfg.DBPath)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&secretsPath, "secrets", "c", "secrets.json", "path to secrets file")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to ledger database (overrides config)")
	return cmd
}
