package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend and model status",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	status, err := gateway.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	fmt.Printf("Backend: %s\n", status.Status)
	if status.ModelOperational() {
		fmt.Println("Model:   trained and operational")
	} else {
		fmt.Println("Model:   no trained model available")
	}

	if len(status.Components) > 0 {
		names := make([]string, 0, len(status.Components))
		for name := range status.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Components:")
		for _, name := range names {
			fmt.Printf("  %-15s %s\n", name, status.Components[name])
		}
	}
	return nil
}
