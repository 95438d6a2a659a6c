package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/core/services"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Inspect and retry agent runs",
}

var runShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a stored run with its trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunShow,
}

var runRetryCmd = &cobra.Command{
	Use:   "retry [run-id]",
	Short: "Re-execute a run in its original scope",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunRetry,
}

var runHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs recorded on this machine",
	RunE:  runRunHistory,
}

// Flags for run.
var (
	runRetryMessage string
	runHistoryLimit int
)

func init() {
	runRetryCmd.Flags().StringVarP(&runRetryMessage, "message", "m", "", "replace the original question")
	runHistoryCmd.Flags().IntVarP(&runHistoryLimit, "limit", "n", 20, "maximum number of runs")
	runCmd.AddCommand(runShowCmd)
	runCmd.AddCommand(runRetryCmd)
	runCmd.AddCommand(runHistoryCmd)
	rootCmd.AddCommand(runCmd)
}

func runRunShow(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}
	run, err := runService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Run:     %s\n", run.ID)
	cmd.Printf("Status:  %s\n", run.Status)
	if run.Mode != "" {
		cmd.Printf("Mode:    %s\n", run.Mode)
	}
	if run.Provider != "" || run.Model != "" {
		cmd.Printf("Model:   %s/%s\n", run.Provider, run.Model)
	}
	if run.CreatedAt != "" {
		cmd.Printf("Created: %s\n", run.CreatedAt)
	}
	cmd.Println()
	cmd.Printf("Q: %s\n", run.Message)
	cmd.Printf("A: %s\n", run.FinalAnswer)
	if len(run.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		cmd.Println(services.FormatCitations(run.Citations))
	}
	if len(run.Steps) > 0 {
		printSteps(cmd, run.Steps)
	}
	return nil
}

func runRunRetry(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}
	answer, err := runService.Retry(cmd.Context(), args[0], runRetryMessage)
	if err != nil {
		return err
	}
	turn := services.AnswerTurn(answer, true)
	cmd.Println(turn.Content)
	if len(turn.Steps) > 0 {
		printSteps(cmd, turn.Steps)
	}
	cmd.Println(muted("run " + answer.RunID))
	return nil
}

func runRunHistory(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}
	records, err := runService.History(cmd.Context(), runHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}
	for _, r := range records {
		when := time.Unix(r.CreatedAt, 0).Local().Format("2006-01-02 15:04")
		cmd.Printf("  %s  %s  %s\n", muted(when), r.RunID, r.Message)
		cmd.Printf("      %s  %d sources\n", muted(r.Scope.String()), r.Citations)
	}
	return nil
}
