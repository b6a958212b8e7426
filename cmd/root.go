// Package cmd wires the VulnAI admin console and its management
// subcommands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackfoxxx/VulnAI/internal/client"
	"github.com/blackfoxxx/VulnAI/internal/config"
	"github.com/blackfoxxx/VulnAI/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "vulnai",
	Short: "VulnAI - admin console for the VulnAI security platform",
	Long: `VulnAI is the operator console for the VulnAI security-tooling
platform. It manages the installed tool catalog, submits training
data, and drives the assistant that runs security tools on demand.

Running vulnai with no arguments opens the interactive console.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration and builds the shared dependencies
// every subcommand needs.
func bootstrap() (*config.Config, log.Logger, *client.Gateway, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.New(log.Config{Level: cfg.SlogLevel(), JSON: cfg.LogJSON})

	gateway, err := client.New(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create gateway: %w", err)
	}
	return cfg, logger, gateway, nil
}
