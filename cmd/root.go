package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inovacc/forkr/internal/application"
	"github.com/inovacc/forkr/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   application.AppName + " <repository> <command>",
	Short: "Analyze the forks of a GitHub repository",
	Long: `Forkr inspects the fork network of a GitHub repository.

It answers two questions the GitHub UI makes hard: which forks contain
commits that never made it upstream (fnm), and which forks are the most
alive by some metric (top).

The repository can be given as owner/repo or as any GitHub URL, and is
usually passed as the first argument:

  forkr github.com/pallets/flask top -S
  forkr https://github.com/pallets/flask fnm

Authentication is optional. Without a token GitHub allows 60 requests
per hour, which one scan of a popular repository easily exceeds. A
token is taken from (in priority order):
  1. --token flag
  2. ` + application.EnvToken + `, GITHUB_TOKEN or GH_TOKEN environment variable
  3. Config file
  4. forkr auth login (system keyring)
  5. gh CLI authentication

Responses are cached on disk for a day, so repeated runs against the
same repository cost almost no API quota.`,
	Version:       application.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonOut, _ := cmd.Flags().GetBool("json")
		logging.Setup(verbose, jsonOut)
	},
}

func Execute() {
	rootCmd.SetArgs(extractRepoArg(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// valueFlags are the root flags that consume the following argument,
// extractRepoArg must not mistake their values for the repository.
var valueFlags = map[string]bool{
	"--token": true,
	"--repo":  true,
}

// extractRepoArg rewrites a leading repository positional into the
// --repo flag, so both of these work:
//
//	forkr github.com/pallets/flask top -S
//	forkr top -S --repo github.com/pallets/flask
func extractRepoArg(args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] {
				i++
			}

			continue
		}

		if isSubcommand(arg) {
			return args
		}

		rewritten := make([]string, 0, len(args)+1)
		rewritten = append(rewritten, args[:i]...)
		rewritten = append(rewritten, args[i+1:]...)

		return append(rewritten, "--repo", arg)
	}

	return args
}

// isSubcommand reports whether name is a registered command, including
// the help and completion commands cobra adds on its own.
func isSubcommand(name string) bool {
	if name == "help" || name == "completion" {
		return true
	}

	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}

	return false
}

func init() {
	rootCmd.PersistentFlags().String("repo", "", "Repository (owner/repo or URL)")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (default: auto-detect)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Bypass the response cache")
}
