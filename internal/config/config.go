//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-stockgen.
// Configuration is loaded from config files and CLI flags. CLI flags take
// precedence over config file values. The only environment variable read is
// OPENAI_API_KEY, as a fallback for the report narrative key.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the layout of date-only config values.
const DateLayout = "2006-01-02"

// Config holds all configuration for pgedge-stockgen.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogPretty selects console output instead of JSON lines.
	LogPretty bool `mapstructure:"log_pretty" yaml:"log_pretty"`

	// Seed seeds the random source; 0 picks one from the clock.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`

	// Database is the PostgreSQL database used as generation sink,
	// extract source and summary table target.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate"`

	// ETL holds configuration for the etl subcommand.
	ETL ETLConfig `mapstructure:"etl" yaml:"etl"`

	// Report holds configuration for the HTML/PDF report.
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// DatabaseConfig describes a PostgreSQL connection.
type DatabaseConfig struct {
	Type     string `mapstructure:"type" yaml:"type"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Name     string `mapstructure:"db_name" yaml:"db_name"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// Configured reports whether enough is set to attempt a connection.
func (d DatabaseConfig) Configured() bool {
	return d.Host != "" && d.Name != ""
}

// ConnString builds a postgres:// URL from the connection fields.
func (d DatabaseConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else if d.User != "" {
		u.User = url.User(d.User)
	}
	if d.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(d.SSLMode)
	}
	return u.String()
}

// VolumesConfig sets how many rows each generated table receives.
type VolumesConfig struct {
	Categories     int `mapstructure:"categories" yaml:"categories"`
	Suppliers      int `mapstructure:"suppliers" yaml:"suppliers"`
	Warehouses     int `mapstructure:"warehouses" yaml:"warehouses"`
	Products       int `mapstructure:"products" yaml:"products"`
	PurchaseOrders int `mapstructure:"purchase_orders" yaml:"purchase_orders"`
	SalesOrders    int `mapstructure:"sales_orders" yaml:"sales_orders"`
	StockMovements int `mapstructure:"stock_movements" yaml:"stock_movements"`

	// PODetailsAvg is the mean number of lines per purchase order.
	PODetailsAvg float64 `mapstructure:"po_details_avg_per_po" yaml:"po_details_avg_per_po"`

	// SODetailsAvg is the mean number of lines per sales order.
	SODetailsAvg float64 `mapstructure:"so_details_avg_per_so" yaml:"so_details_avg_per_so"`
}

// GenerateConfig holds configuration for dataset generation.
type GenerateConfig struct {
	Volumes VolumesConfig `mapstructure:"volumes" yaml:"volumes"`

	// StartDate and EndDate bound the seasonal date sampler (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date" yaml:"start_date"`
	EndDate   string `mapstructure:"end_date" yaml:"end_date"`

	// ParetoSplit is the fraction of products in the hot set.
	ParetoSplit float64 `mapstructure:"pareto_split" yaml:"pareto_split"`

	// ParetoVolume is the probability a draw picks from the hot set.
	ParetoVolume float64 `mapstructure:"pareto_volume" yaml:"pareto_volume"`

	// DQIssuePercent is the fraction of movements that receive a defect.
	DQIssuePercent float64 `mapstructure:"dq_issue_percent" yaml:"dq_issue_percent"`

	// OutputDir receives CSV files or the SQL script.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Format is the sink: csv, sql or postgres.
	Format string `mapstructure:"format" yaml:"format"`
}

// DateRange parses the configured start and end dates.
func (g GenerateConfig) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, g.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: %w", g.StartDate, err)
	}
	end, err := time.Parse(DateLayout, g.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: %w", g.EndDate, err)
	}
	return start, end, nil
}

// ABCConfig holds the Pareto class thresholds as fractions of revenue.
type ABCConfig struct {
	APercent float64 `mapstructure:"a_percent" yaml:"a_percent"`
	BPercent float64 `mapstructure:"b_percent" yaml:"b_percent"`
	CPercent float64 `mapstructure:"c_percent" yaml:"c_percent"`
}

// ETLConfig holds configuration for the analytics pipeline.
type ETLConfig struct {
	// Source is where tables are extracted from: csv or postgres.
	Source string `mapstructure:"source" yaml:"source"`

	// InputDir holds the CSV tables when Source is csv.
	InputDir string `mapstructure:"input_dir" yaml:"input_dir"`

	// LoadType is full or incremental.
	LoadType string `mapstructure:"load_type" yaml:"load_type"`

	// LastRunTimestamp is the incremental watermark (RFC 3339 or date).
	LastRunTimestamp string `mapstructure:"last_run_timestamp" yaml:"last_run_timestamp"`

	// DeadStockDays is the idle threshold for dead stock.
	DeadStockDays int `mapstructure:"dead_stock_days" yaml:"dead_stock_days"`

	ABC ABCConfig `mapstructure:"abc_analysis" yaml:"abc_analysis"`

	// OutputDir receives the analytics tables.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Format is the analytics output format: csv, parquet or excel.
	Format string `mapstructure:"format" yaml:"format"`

	// SummaryTable is the table the per-run summary row is appended to.
	SummaryTable string `mapstructure:"summary_table" yaml:"summary_table"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// Watermark parses LastRunTimestamp. The zero time is returned when unset.
func (e ETLConfig) Watermark() (time.Time, error) {
	return ParseTimestamp(e.LastRunTimestamp)
}

// NarrativeConfig configures the generated executive narrative.
type NarrativeConfig struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Model          string `mapstructure:"model" yaml:"model"`
	MaxWords       int    `mapstructure:"max_words" yaml:"max_words"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// ResolvedAPIKey returns the configured key or the OPENAI_API_KEY fallback.
func (n NarrativeConfig) ResolvedAPIKey() string {
	if n.APIKey != "" {
		return n.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// ReportConfig configures the rendered report.
type ReportConfig struct {
	Enabled   bool            `mapstructure:"enabled" yaml:"enabled"`
	OutputDir string          `mapstructure:"output_dir" yaml:"output_dir"`
	Filename  string          `mapstructure:"filename" yaml:"filename"`
	PDF       bool            `mapstructure:"pdf" yaml:"pdf"`
	Locale    string          `mapstructure:"locale" yaml:"locale"`
	Currency  string          `mapstructure:"currency" yaml:"currency"`
	Narrative NarrativeConfig `mapstructure:"narrative" yaml:"narrative"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogPretty: true,
		Database: DatabaseConfig{
			Type:    "postgresql",
			User:    "postgres",
			Host:    "localhost",
			Port:    5432,
			Name:    "warehouse",
			SSLMode: "disable",
		},
		Generate: GenerateConfig{
			Volumes: VolumesConfig{
				Categories:     20,
				Suppliers:      50,
				Warehouses:     5,
				Products:       1000,
				PurchaseOrders: 2000,
				SalesOrders:    10000,
				StockMovements: 100000,
				PODetailsAvg:   5,
				SODetailsAvg:   3,
			},
			StartDate:      "2023-01-01",
			EndDate:        "2024-12-31",
			ParetoSplit:    0.2,
			ParetoVolume:   0.8,
			DQIssuePercent: 0.02,
			OutputDir:      "output",
			Format:         "csv",
		},
		ETL: ETLConfig{
			Source:        "csv",
			InputDir:      "output",
			LoadType:      "full",
			DeadStockDays: 180,
			ABC: ABCConfig{
				APercent: 0.80,
				BPercent: 0.15,
				CPercent: 0.05,
			},
			OutputDir:    "analytics",
			Format:       "csv",
			SummaryTable: "etl_run_summary",
		},
		Report: ReportConfig{
			Enabled:   true,
			OutputDir: "reports",
			Filename:  "inventory_report.html",
			PDF:       false,
			Locale:    "en-US",
			Currency:  "$",
			Narrative: NarrativeConfig{
				Enabled:        true,
				BaseURL:        "https://api.openai.com/v1",
				Model:          "gpt-4o-mini",
				MaxWords:       120,
				TimeoutSeconds: 30,
			},
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-stockgen.yaml
// 3. ~/.config/pgedge-stockgen/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("pgedge-stockgen")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-stockgen"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ValidateDatabase checks the database section.
func (c *Config) ValidateDatabase() error {
	switch c.Database.Type {
	case "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported database type %q (only postgresql is supported)", c.Database.Type)
	}
	if !c.Database.Configured() {
		return fmt.Errorf("database host and db_name are required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	g := c.Generate
	vol := g.Volumes

	if vol.Categories < 1 || vol.Suppliers < 1 || vol.Products < 1 {
		return fmt.Errorf("categories, suppliers and products volumes must be at least 1")
	}
	if vol.Warehouses < 2 {
		return fmt.Errorf("warehouses volume must be at least 2 for transfers")
	}
	if vol.PurchaseOrders < 1 || vol.SalesOrders < 1 {
		return fmt.Errorf("purchase_orders and sales_orders volumes must be at least 1")
	}
	if vol.StockMovements < 0 {
		return fmt.Errorf("stock_movements volume must be non-negative")
	}
	if vol.PODetailsAvg < 1 || vol.SODetailsAvg < 1 {
		return fmt.Errorf("average details per order must be at least 1")
	}
	start, end, err := g.DateRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	if g.ParetoSplit < 0 || g.ParetoSplit > 1 {
		return fmt.Errorf("pareto_split must be between 0 and 1")
	}
	if g.ParetoVolume < 0 || g.ParetoVolume > 1 {
		return fmt.Errorf("pareto_volume must be between 0 and 1")
	}
	if g.DQIssuePercent < 0 || g.DQIssuePercent > 1 {
		return fmt.Errorf("dq_issue_percent must be between 0 and 1")
	}

	switch g.Format {
	case "csv", "sql":
		if g.OutputDir == "" {
			return fmt.Errorf("output_dir is required for %s output", g.Format)
		}
	case "postgres":
		return c.ValidateDatabase()
	default:
		return fmt.Errorf("generate format must be 'csv', 'sql' or 'postgres'")
	}
	return nil
}

// ValidateETL checks configuration required for the etl command.
func (c *Config) ValidateETL() error {
	e := c.ETL

	switch e.Source {
	case "csv":
		if e.InputDir == "" {
			return fmt.Errorf("input_dir is required for csv source")
		}
	case "postgres":
		if err := c.ValidateDatabase(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("etl source must be 'csv' or 'postgres'")
	}

	if e.LoadType != "full" && e.LoadType != "incremental" {
		return fmt.Errorf("load_type must be 'full' or 'incremental'")
	}
	if _, err := e.Watermark(); err != nil {
		return err
	}
	if e.DeadStockDays < 0 {
		return fmt.Errorf("dead_stock_days must be non-negative")
	}
	if e.ABC.APercent <= 0 || e.ABC.BPercent < 0 || e.ABC.APercent+e.ABC.BPercent > 1 {
		return fmt.Errorf("abc_analysis thresholds must satisfy 0 < a_percent and a_percent + b_percent <= 1")
	}

	switch e.Format {
	case "csv", "parquet", "excel":
	default:
		return fmt.Errorf("etl format must be 'csv', 'parquet' or 'excel'")
	}
	if e.OutputDir == "" {
		return fmt.Errorf("etl output_dir is required")
	}

	if c.Report.Enabled && c.Report.Narrative.MaxWords < 1 {
		return fmt.Errorf("narrative max_words must be at least 1")
	}
	return nil
}

// ParseTimestamp accepts RFC 3339, "YYYY-MM-DD HH:MM:SS" or a bare date.
// An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateTime, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
