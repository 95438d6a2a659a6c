package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in to the DocFoundry backend",
	Long: `Manage the bearer token used for every backend call.

The token is persisted locally (see 'storage.token_backend') and shared
by the CLI, the TUI and the MCP server.

Examples:
  docfoundry auth login --email ada@example.com
  docfoundry auth register --email ada@example.com --name Ada
  docfoundry auth status
  docfoundry auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE:  runAuthStatus,
}

// Flags for auth login and register.
var (
	authEmail    string
	authPassword string
	authName     string
)

func init() {
	for _, c := range []*cobra.Command{authLoginCmd, authRegisterCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email (prompted when omitted)")
		c.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")
	}
	authRegisterCmd.Flags().StringVar(&authName, "name", "", "display name")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if credentialService == nil {
		return errors.New("credential service not configured")
	}

	req := domain.LoginRequest{Email: authEmail, Password: authPassword}
	if req.Email == "" {
		req.Email = readLine(cmd.OutOrStdout(), "Email: ")
	}
	if req.Password == "" {
		req.Password = readPassword(cmd.OutOrStdout(), "Password: ")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	if err := credentialService.Login(cmd.Context(), req.Email, req.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cmd.Println(success("Logged in as " + identity(req.Email)))
	return nil
}

func runAuthRegister(cmd *cobra.Command, _ []string) error {
	if credentialService == nil {
		return errors.New("credential service not configured")
	}

	req := domain.RegisterRequest{Email: authEmail, Password: authPassword, Name: authName}
	if req.Email == "" {
		req.Email = readLine(cmd.OutOrStdout(), "Email: ")
	}
	if req.Password == "" {
		req.Password = readPassword(cmd.OutOrStdout(), "Password: ")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	if err := credentialService.Register(cmd.Context(), req.Email, req.Password, req.Name); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	cmd.Println(success("Registered and logged in as " + identity(req.Email)))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if credentialService == nil {
		return errors.New("credential service not configured")
	}
	if err := credentialService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if credentialService == nil {
		return errors.New("credential service not configured")
	}
	if !credentialService.IsAuthenticated() {
		cmd.Println(warning("Not logged in.") + " Run 'docfoundry auth login'.")
		return nil
	}

	claims, err := credentialService.Claims()
	if err != nil {
		cmd.Println(success("Logged in") + muted(" (token carries no readable claims)"))
		return nil
	}

	cmd.Printf("%s as %s\n", success("Logged in"), claims.Identity())
	if !claims.ExpiresAt.IsZero() {
		label := "Expires"
		if claims.IsExpired() {
			label = warning("Expired")
		}
		cmd.Printf("  %s: %s\n", label, claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// identity prefers the claims of the fresh token, falling back to the
// email used to obtain it.
func identity(fallback string) string {
	if claims, err := credentialService.Claims(); err == nil {
		if id := claims.Identity(); id != "" {
			return id
		}
	}
	return fallback
}
