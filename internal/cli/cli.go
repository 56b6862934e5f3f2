//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-stockgen.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/metrics"
	"github.com/pgEdge/pgedge-stockgen/internal/pipeline"
	"github.com/pgEdge/pgedge-stockgen/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	seed     uint64

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-stockgen",
		Short: "Warehouse stock data generator and analytics pipeline",
		Long: `pgedge-stockgen synthesizes a realistic warehouse inventory dataset
(master data, purchase and sales orders, a stock movement ledger and the
stock levels derived from it) and runs an ETL pipeline over it that
computes inventory, movement, financial and warehouse analytics.

Generated data can be written as CSV files, a single SQL script or loaded
directly into PostgreSQL. Analytics are written as CSV, Parquet or Excel
files, a summary row per run, and an HTML/PDF report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-stockgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0,
		"random seed for reproducible generation (0 = random)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(etlCmd)
}

func initConfig(cmd *cobra.Command) error {
	// .env may carry OPENAI_API_KEY for the report narrative
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return pipeline.ConfigError(err)
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	return nil
}

// newFaker returns the random source for a run, seeded from the config
// when a seed is set.
func newFaker() *datagen.Faker {
	if cfg.Seed != 0 {
		return datagen.NewFakerWithSeed(cfg.Seed)
	}
	return datagen.NewFaker()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// writeMetrics writes the metrics textfile when one is configured.
func writeMetrics(rec *metrics.Recorder) {
	path := cfg.ETL.MetricsFile
	if path == "" {
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Failed to write metrics file")
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
