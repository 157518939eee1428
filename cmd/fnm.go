package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/inovacc/forkr/internal/core"
	"github.com/inovacc/forkr/internal/progress"
)

var fnmCmd = &cobra.Command{
	Use:   "fnm",
	Short: "Find commits that exist only in forks",
	Long: `Fnm (fork-not-merged) scans every fork for commits whose messages
never appear on the upstream default branch.

Matching is done by full commit message rather than SHA, so commits
that were rebased or cherry-picked upstream do not count as novel.
Results stream fork by fork while the scan runs, each novel commit
numbered by its position in the fork's history, newest first:

  Fork: alice/flask (https://github.com/alice/flask)
    1. Fix crash on empty input  https://github.com/alice/flask/commit/8f3a91c
    4. Teach the parser unicode  https://github.com/alice/flask/commit/02e17de

Forks that were deleted or emptied since the fork list was fetched are
skipped with a notice. Expect one commit listing request per fork, on
big fork networks run this with a token.`,
	Args: cobra.NoArgs,
	RunE: runFnm,
}

func init() {
	rootCmd.AddCommand(fnmCmd)
}

func runFnm(cmd *cobra.Command, _ []string) error {
	flags := extractSessionFlags(cmd)

	session, repo, err := newSession(flags)
	if err != nil {
		return err
	}

	defer func() { _ = session.Close() }()

	ctx := cmd.Context()

	if flags.JSON {
		report, err := session.NovelCommits(ctx, repo, core.NovelOptions{})
		if err != nil {
			return err
		}

		return outputJSON(report)
	}

	scanning := "scanning forks of " + repo.FullName()

	ind := progress.New(os.Stderr, interactive())
	ind.Start(scanning)

	defer ind.Stop()

	report, err := session.NovelCommits(ctx, repo, core.NovelOptions{
		OnFork: func(n *core.ForkNovelty) {
			ind.Stop()

			printForkHeading(n.Fork.FullName, n.Fork.HTMLURL)

			for _, c := range n.Commits {
				printCommit(c.Position, truncateMessage(c.Message), c.HTMLURL)
			}

			ind.Start(scanning)
		},
		OnSkip: func(sk core.SkippedFork) {
			ind.Stop()
			printWarning("fork %s %s, skipping", sk.Name, sk.Reason)
			ind.Start(scanning)
		},
	})

	ind.Stop()

	if err != nil {
		return err
	}

	if len(report.Novel) == 0 {
		printInfo("no novel commits in %d forks of %s", report.ForksTotal, report.Repo)

		return nil
	}

	printSuccess("%d of %d forks carry novel commits", len(report.Novel), report.ForksTotal)

	if len(report.Skipped) > 0 {
		printDetail("%d forks skipped", len(report.Skipped))
	}

	return nil
}
