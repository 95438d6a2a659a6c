package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// Flags for ask.
var (
	askProject  string
	askKB       string
	askDoc      string
	askTopK     int
	askMode     string
	askMaxSteps int
	askTrace    bool
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask one question and print the answer",
	Long: `Send a single question to the DocFoundry agent.

Scope narrows retrieval: --doc to one document, --kb to one knowledge base,
--project to one project. With no scope every accessible document is searched.

Examples:
  docfoundry ask "What changed in the 2001 report?" --kb 3f2a...
  docfoundry ask "Summarise this" --doc 9c1e... --mode summarize --trace`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askProject, "project", "", "restrict retrieval to a project")
	askCmd.Flags().StringVar(&askKB, "kb", "", "restrict retrieval to a knowledge base")
	askCmd.Flags().StringVar(&askDoc, "doc", "", "restrict retrieval to a document")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "chunks to retrieve, 1-50 (default from settings)")
	askCmd.Flags().StringVar(&askMode, "mode", "", "agent mode: auto, answer, summarize, extract")
	askCmd.Flags().IntVar(&askMaxSteps, "max-steps", 0, "bound the agent loop (default from settings)")
	askCmd.Flags().BoolVar(&askTrace, "trace", false, "request and print the agent trace")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer turn as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if conversation == nil {
		return errors.New("conversation controller not configured")
	}
	if scopeController == nil {
		return errors.New("scope controller not configured")
	}

	message := strings.Join(args, " ")
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}

	opts := conversation.Options()
	if cmd.Flags().Changed("top-k") {
		if askTopK < domain.MinTopK || askTopK > domain.MaxTopK {
			return fmt.Errorf("%w: --top-k must be between %d and %d", domain.ErrInvalidInput, domain.MinTopK, domain.MaxTopK)
		}
		opts.TopK = askTopK
	}
	if cmd.Flags().Changed("mode") {
		mode := domain.AgentMode(askMode)
		if !mode.IsValid() {
			return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, askMode)
		}
		opts.Mode = mode
	}
	if cmd.Flags().Changed("max-steps") {
		opts.MaxSteps = askMaxSteps
	}
	if cmd.Flags().Changed("trace") {
		opts.ShowTrace = askTrace
	}
	conversation.SetOptions(opts)

	ctx := cmd.Context()
	// Each level resets the ones below it, so apply top-down.
	scopeController.SetProject(ctx, askProject)
	scopeController.SetKnowledgeBase(ctx, askKB)
	scopeController.SetDocument(ctx, askDoc)
	defer scopeController.Wait()

	if !conversation.Send(ctx, message) {
		return domain.ErrBusy
	}

	transcript := conversation.Transcript()
	turn := transcript[len(transcript)-1]
	state := conversation.State()

	if askJSON {
		data, err := json.MarshalIndent(turn, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Println(turn.Content)
		if len(turn.Steps) > 0 {
			printSteps(cmd, turn.Steps)
		}
		if turn.RunID != "" {
			cmd.Println(muted("run " + turn.RunID))
		}
	}

	switch {
	case state.LastError != "" && strings.HasPrefix(turn.Content, domain.RequestFailedPrefix):
		return errors.New(state.LastError)
	case turn.Content == domain.NotLoggedInText:
		return domain.ErrNotAuthenticated
	}
	return nil
}

func printSteps(cmd *cobra.Command, steps []domain.AgentStep) {
	cmd.Println()
	cmd.Println("Trace:")
	for _, s := range steps {
		cmd.Printf("  [%d] %s\n", s.Index, s.Kind)
		if len(s.Payload) == 0 {
			continue
		}
		data, err := json.MarshalIndent(s.Payload, "      ", "  ")
		if err != nil {
			continue
		}
		cmd.Printf("      %s\n", data)
	}
}
