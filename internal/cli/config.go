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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
)

const secretMask = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and CLI flags
have been applied, as YAML. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderConfig(cfg)
		if err != nil {
			return err
		}
		cmd.Print(out)
		return nil
	},
}

// renderConfig marshals c as YAML with the database password and the
// narrative API key masked.
func renderConfig(c *config.Config) (string, error) {
	masked := *c
	if masked.Database.Password != "" {
		masked.Database.Password = secretMask
	}
	if masked.Report.Narrative.APIKey != "" {
		masked.Report.Narrative.APIKey = secretMask
	}
	out, err := yaml.Marshal(&masked)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(out), nil
}
