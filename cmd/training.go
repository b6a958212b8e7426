package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackfoxxx/VulnAI/internal/training"
)

// trainTimeout bounds a full model training run.
const trainTimeout = 30 * time.Minute

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Manage vulnerability training data and model training",
}

var (
	trainingTitle       string
	trainingDescription string
	trainingLinks       []string
	trainingCVEs        []string
)

var trainingSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a vulnerability write-up as training data",
	RunE:  runTrainingSubmit,
}

var trainingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted training entries",
	RunE:  runTrainingList,
}

var trainingTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the model on the submitted data",
	RunE:  runTrainingTrain,
}

func init() {
	trainingSubmitCmd.Flags().StringVar(&trainingTitle, "title", "", "vulnerability title")
	trainingSubmitCmd.Flags().StringVar(&trainingDescription, "description", "", "vulnerability description")
	trainingSubmitCmd.Flags().StringSliceVar(&trainingLinks, "link", nil, "write-up link, must start with http (repeatable)")
	trainingSubmitCmd.Flags().StringSliceVar(&trainingCVEs, "cve", nil, "related CVE identifier (repeatable)")
	_ = trainingSubmitCmd.MarkFlagRequired("title")
	_ = trainingSubmitCmd.MarkFlagRequired("description")

	trainingCmd.AddCommand(trainingSubmitCmd, trainingListCmd, trainingTrainCmd)
	rootCmd.AddCommand(trainingCmd)
}

func runTrainingSubmit(cmd *cobra.Command, args []string) error {
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	builder := training.NewBuilder()
	builder.SetTitle(trainingTitle)
	builder.SetDescription(trainingDescription)
	for _, link := range trainingLinks {
		if err := builder.AddLink(link); err != nil {
			return fmt.Errorf("link %q: %w", link, err)
		}
	}
	for _, cve := range trainingCVEs {
		if err := builder.AddCVE(cve); err != nil {
			return fmt.Errorf("cve %q: %w", cve, err)
		}
	}

	entry, err := builder.Build()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	if err := gateway.SubmitTrainingData(ctx, entry); err != nil {
		return fmt.Errorf("submit training data: %w", err)
	}
	fmt.Println("Training data submitted.")
	return nil
}

func runTrainingList(cmd *cobra.Command, args []string) error {
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	entries, err := gateway.ListTrainingData(ctx)
	if err != nil {
		return fmt.Errorf("list training data: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No training data submitted yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s\n  %s\n", e.Title, e.Description)
		for _, cve := range e.CVEs {
			fmt.Printf("  %s\n", cve)
		}
		for _, link := range e.WriteupLinks {
			fmt.Printf("  %s\n", link)
		}
		fmt.Println()
	}
	return nil
}

func runTrainingTrain(cmd *cobra.Command, args []string) error {
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), trainTimeout)
	defer cancel()

	fmt.Println("Training model...")
	result, err := gateway.TriggerTraining(ctx)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	fmt.Printf("Training complete.\n")
	fmt.Printf("  Validation accuracy: %.2f%%\n", result.ValidationAccuracy*100)
	fmt.Printf("  Training samples:    %d\n", result.TrainingSamples)
	if result.Timestamp != "" {
		fmt.Printf("  Finished at:         %s\n", result.Timestamp)
	}
	return nil
}
