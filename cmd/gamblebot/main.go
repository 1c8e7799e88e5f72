// Package main is the gamblebot command line: weekly prop reports, stake
// sizing, evaluation of logged predictions, and a scheduled mode.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gamblebot/internal/config"
	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	noCache    bool
	cfg        *config.Config
	log        *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gamblebot",
	Short:         "Price NFL player props against a Poisson model",
	Long:          `Builds weekly reports of 2+ touchdown and 1+ sack player props where the model's probability beats the market, sizes stakes with fractional Kelly, and scores logged predictions once games are played.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		metrics.InitRegistry()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return writeMetrics()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the feed response cache")

	rootCmd.AddCommand(newReportCmd(), newEvaluateCmd(), newStakeCmd(), newScheduleCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = strings.ToLower(logLevel)
	}
	log = logger.NewLogger(cfg.App.LogLevel)

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	return config.Validate(cfg)
}

func writeMetrics() error {
	if cfg == nil || !cfg.Metrics.Enabled {
		return nil
	}
	if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		log.WithError(err).Warn("Failed to write metrics")
	}
	return nil
}
