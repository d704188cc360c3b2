// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// suitability is the offline command-line front end to the scoring engine.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"suitability-mcp/internal/app"
	"suitability-mcp/internal/config"
	"suitability-mcp/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "suitability",
	Short:         "Score candidate districts for a new branch",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml|json|toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")
	rootCmd.AddCommand(scoreCmd, paramsCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// open loads configuration with CLI overrides and builds the application.
// Metrics are not exported from the CLI.
func open(ctx context.Context, overrides map[string]any) (*app.App, error) {
	cfg, err := config.LoadFile(configPath, overrides)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(logLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, logging.WithComponent(logger, "cli"), nil)
	if err != nil {
		logger.Error("open failed", logging.FieldDSN("dsn", cfg.MetricsDSN), zap.Error(err))
		return nil, err
	}
	return a, nil
}
