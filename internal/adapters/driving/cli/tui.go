package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

var tuiMarkdownStyle string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat",
	Long: `Launch the interactive terminal chat for DocFoundry.

The left sidebar holds the project, knowledge base and document lists that
scope retrieval; the right side holds the conversation.

Controls:
  Enter        - Send message / apply highlighted scope entry
  Tab          - Cycle focus: input, projects, knowledge bases, documents
  ↑/k, ↓/j     - Move in a list
  Del          - Clear the focused scope level
  Ctrl+N       - New chat
  Ctrl+T       - Toggle agent trace
  Alt+↑/Alt+↓  - Raise / lower top_k
  PgUp/PgDn    - Scroll the transcript
  F1           - Toggle help
  Ctrl+C       - Quit

While a question is being answered further messages are not sent.
Logs go to the file set by 'log.file'.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiMarkdownStyle, "style", "dark", "markdown style for answers: dark, light, notty, ...")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("tui crashed")
		}
	}()

	ports := &tui.Ports{
		Conversation: conversation,
		Scope:        scopeController,
		Credentials:  credentialService,
	}

	app, err := tui.NewApp(ports, tui.WithMarkdownStyle(tuiMarkdownStyle))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// The TUI owns the terminal; keep stderr logging out of it.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	app.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	scopeController.Wait()

	return nil
}
