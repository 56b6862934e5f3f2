//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/extract"
	"github.com/pgEdge/pgedge-stockgen/internal/metrics"
	"github.com/pgEdge/pgedge-stockgen/internal/pipeline"
)

var (
	etlLoadType  string
	etlSource    string
	etlInputDir  string
	etlOutputDir string
	etlFormat    string
	etlSince     string
	etlNoReport  bool
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Run the inventory analytics pipeline",
	Long: `Extract the warehouse dataset, discard movements with data-quality
defects, compute inventory, movement, financial and warehouse analytics,
write them to the output directory and render the HTML report.

Load types:
  full        - process the whole movement ledger (default)
  incremental - process movements after the last run only

Example:
  pgedge-stockgen etl --input-dir ./output --format parquet
  pgedge-stockgen etl --source postgres --load-type incremental
  pgedge-stockgen etl --load-type incremental --since 2024-06-01 --no-report`,
	RunE: runETL,
}

func init() {
	etlCmd.Flags().StringVar(&etlLoadType, "load-type", "",
		"load type: full or incremental")
	etlCmd.Flags().StringVar(&etlSource, "source", "",
		"data source: csv or postgres")
	etlCmd.Flags().StringVar(&etlInputDir, "input-dir", "",
		"directory of generated csv files (csv source only)")
	etlCmd.Flags().StringVar(&etlOutputDir, "output-dir", "",
		"directory for analytics outputs")
	etlCmd.Flags().StringVar(&etlFormat, "format", "",
		"analytics format: csv, parquet or excel")
	etlCmd.Flags().StringVar(&etlSince, "since", "",
		"incremental watermark override (RFC 3339 or YYYY-MM-DD)")
	etlCmd.Flags().BoolVar(&etlNoReport, "no-report", false,
		"skip the HTML/PDF report")
}

func runETL(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if etlLoadType != "" {
		cfg.ETL.LoadType = etlLoadType
	}
	if etlSource != "" {
		cfg.ETL.Source = etlSource
	}
	if etlInputDir != "" {
		cfg.ETL.InputDir = etlInputDir
	}
	if etlOutputDir != "" {
		cfg.ETL.OutputDir = etlOutputDir
	}
	if etlFormat != "" {
		cfg.ETL.Format = etlFormat
	}

	// Validate configuration
	if err := cfg.ValidateETL(); err != nil {
		return err
	}

	loadType, err := extract.ParseLoadType(cfg.ETL.LoadType)
	if err != nil {
		return err
	}
	since, err := config.ParseTimestamp(etlSince)
	if err != nil {
		return fmt.Errorf("invalid --since: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner, err := pipeline.Open(ctx, cfg, metrics.New())
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Run(ctx, pipeline.Options{
		LoadType:   loadType,
		Since:      since,
		SkipReport: etlNoReport,
	})
	if err != nil {
		return err
	}

	printRunSummary(cmd.OutOrStdout(), res)
	return nil
}

// printRunSummary writes a short human-readable account of a run.
func printRunSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "Run ID:     %s\n", res.RunID)
	if res.Skipped {
		fmt.Fprintln(w, "Status:     skipped (no new stock movements)")
		return
	}
	fmt.Fprintf(w, "Movements:  %d read, %d discarded\n",
		res.Filter.Total, res.Filter.Discarded)
	if res.Load != nil {
		fmt.Fprintf(w, "Outputs:    %d written\n", len(res.Load.Written))
		if failed := res.Load.FailedNames(); len(failed) > 0 {
			fmt.Fprintf(w, "Failed:     %s\n", strings.Join(failed, ", "))
		}
	}
	if res.Report != nil {
		fmt.Fprintf(w, "Report:     %s\n", res.Report.HTMLPath)
		if res.Report.PDFPath != "" {
			fmt.Fprintf(w, "PDF:        %s\n", res.Report.PDFPath)
		}
	}
}
