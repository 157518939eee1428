package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inovacc/forkr/internal/config"
	"github.com/inovacc/forkr/internal/core"
	"github.com/inovacc/forkr/internal/giturl"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub authentication",
	Long: `Log in to GitHub so fork scans run with your API quota instead of
the anonymous 60 requests per hour.

Login uses the OAuth device flow and stores the minted token in the
system keyring. A Personal Access Token can be stored directly with
--token to skip the browser round trip.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with the OAuth device flow",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token would be used and whether it works",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var (
	authHost   string
	authScopes []string
	authToken  string
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authCmd.PersistentFlags().StringVar(&authHost, "host", "github.com", "GitHub host (for enterprise)")

	authLoginCmd.Flags().StringSliceVar(&authScopes, "scopes", []string{"repo"}, "OAuth scopes to request")
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "Personal Access Token (skip OAuth flow)")
}

// authHostname reduces the --host value to a bare hostname, so URL
// forms like https://github.example.com work too.
func authHostname() string {
	host := strings.TrimSpace(authHost)

	if giturl.IsURL(host) {
		if u, err := giturl.Parse(host); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}

	return strings.TrimSuffix(host, "/")
}

func runAuthLogin(_ *cobra.Command, _ []string) error {
	host := authHostname()

	if !core.IsKeyringAvailable() {
		return errors.New("system keyring is not available, cannot store a login")
	}

	var token, username string

	if authToken != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		valid, user, err := core.ValidateToken(ctx, authToken, host)
		if err != nil {
			return fmt.Errorf("failed to validate token: %w", err)
		}

		if !valid {
			return fmt.Errorf("invalid or expired token")
		}

		token = authToken
		username = user
	} else {
		flow := core.NewOAuthFlow(host, authScopes)

		flow.OnDeviceCode(func(code, url string) {
			fmt.Println("GitHub OAuth Authentication")
			fmt.Println(strings.Repeat("-", 40))
			fmt.Printf("\n1. Copy this code: %s\n\n", code)
			fmt.Printf("2. Open: %s\n\n", url)
			fmt.Println("3. Paste the code and authorize forkr")
			fmt.Println("\nWaiting for authorization...")
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := flow.Run(ctx)
		if err != nil {
			return fmt.Errorf("OAuth authentication failed: %w", err)
		}

		token = result.Token
		username = result.Username
	}

	if err := core.StoreLoginToken(host, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	printSuccess("logged in to %s as %s", host, username)
	printDetail("token stored in the system keyring")

	return nil
}

func runAuthLogout(_ *cobra.Command, _ []string) error {
	host := authHostname()

	if err := core.DeleteLoginToken(host); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	printSuccess("logged out of %s", host)

	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	host := authHostname()

	flagToken, _ := cmd.Flags().GetString("token")

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	token, source := core.ResolveTokenForHost(flagToken, host, cfg)
	if token == "" {
		printWarning("not logged in to %s", host)
		fmt.Println(core.MissingTokenGuidance())

		return nil
	}

	printKeyValue("Host", host)
	printKeyValue("Source", string(source))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	valid, username, err := core.ValidateToken(ctx, token, host)
	if err != nil {
		return fmt.Errorf("failed to validate token: %w", err)
	}

	if !valid {
		printError("token is invalid or expired")

		return nil
	}

	printKeyValue("User", username)
	printSuccess("token is valid")

	return nil
}
