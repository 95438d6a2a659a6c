package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.docfoundry/config.toml.

Keys:
  backend.base_url         DocFoundry API base (env DOCFOUNDRY_API_BASE overrides)
  backend.timeout_seconds  per-request timeout, 0 = none
  backend.rate_limit       requests per second, 0 = unlimited
  chat.top_k               chunks retrieved per question (1-50)
  chat.show_trace          request and show the agent trace
  chat.mode                auto, answer, summarize or extract
  chat.max_steps           agent loop bound, 0 = backend default
  storage.token_backend    file or sqlite
  log.file                 rotated JSON log path, empty = off`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  Base URL: %s\n", settings.Backend.BaseURL)
	cmd.Printf("  Timeout: %s\n", orOff(settings.Backend.TimeoutSeconds, "%ds"))
	if settings.Backend.RateLimit > 0 {
		cmd.Printf("  Rate limit: %.2f req/s\n", settings.Backend.RateLimit)
	} else {
		cmd.Printf("  Rate limit: off\n")
	}
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Top K: %d\n", settings.Chat.TopK)
	mode := settings.Chat.Mode.String()
	if mode == "" {
		mode = "(backend default)"
	}
	cmd.Printf("  Mode: %s\n", mode)
	cmd.Printf("  Max steps: %s\n", orOff(settings.Chat.MaxSteps, "%d"))
	cmd.Printf("  Show trace: %t\n", settings.Chat.ShowTrace)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Token backend: %s\n", settings.Storage.TokenBackend)
	cmd.Println()

	cmd.Println("[Log]")
	if settings.Log.File != "" {
		cmd.Printf("  File: %s\n", settings.Log.File)
	} else {
		cmd.Printf("  File: off\n")
	}
	cmd.Println()

	if err := validate.Struct(settings); err != nil {
		cmd.Printf("%s %v\n", warning("Warning:"), validationError(err))
	} else {
		cmd.Println(success("Configuration is valid."))
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s %s = %s\n", success("Set"), key, value)
	return nil
}

func orOff(n int, format string) string {
	if n <= 0 {
		return "off"
	}
	return fmt.Sprintf(format, n)
}
