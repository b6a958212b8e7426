package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/blackfoxxx/VulnAI/internal/chat"
	"github.com/blackfoxxx/VulnAI/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive admin console",
	RunE:  runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	_, logger, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session := chat.NewSession()

	historyPath, err := chat.HistoryPath()
	if err != nil {
		logger.Warn("transcript path unavailable", "error", err)
	} else if exchanges, loadErr := chat.LoadHistory(historyPath); loadErr != nil {
		logger.Warn("transcript load failed", "error", loadErr)
	} else {
		session.LoadTranscript(exchanges)
	}

	model, err := tui.New(ctx, gateway, session, logger, historyPath)
	if err != nil {
		return fmt.Errorf("create console: %w", err)
	}

	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}
