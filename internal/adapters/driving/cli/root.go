package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

var verbose bool

// Services used by commands, injected by SetServices.
var (
	credentialService driving.CredentialService
	scopeController   driving.ScopeController
	profileResolver   driving.ProfileResolver
	conversation      driving.ConversationController
	catalogService    driving.CatalogService
	runService        driving.RunService
	settingsService   driving.SettingsService
)

// Services groups the driving ports the CLI depends on.
type Services struct {
	Credentials  driving.CredentialService
	Scope        driving.ScopeController
	Profiles     driving.ProfileResolver
	Conversation driving.ConversationController
	Catalog      driving.CatalogService
	Runs         driving.RunService
	Settings     driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "docfoundry",
	Short: "Chat with your DocFoundry knowledge bases",
	Long: `docfoundry is a terminal client for a DocFoundry retrieval-augmented
generation backend.

Log in, pick a project, knowledge base or document to scope retrieval,
and ask questions. Answers come back with the sources they were built from.

Run 'docfoundry tui' for the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	credentialService = s.Credentials
	scopeController = s.Scope
	profileResolver = s.Profiles
	conversation = s.Conversation
	catalogService = s.Catalog
	runService = s.Runs
	settingsService = s.Settings
}

// SetVersion sets the version reported by 'docfoundry version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which every command
// receives through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
