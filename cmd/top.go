package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inovacc/forkr/internal/config"
	"github.com/inovacc/forkr/internal/core"
	"github.com/inovacc/forkr/internal/progress"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank forks by a repository metric",
	Long: `Top ranks the forks of a repository and prints the best ones as a
table, most interesting first.

The metric is picked with one of the single-letter flags, stars being
the default:

  -S stars      -F forks        -I open issues   -D last update
  -P last push  -W watchers     -C commits       -B branches

Stars, forks, issues and the two dates come straight from the fork
listing. Watchers, commits and branches are not part of it, ranking by
one of those costs an extra API request per fork.`,
	Args: cobra.NoArgs,
	RunE: runTop,
}

// rankFlagKeys maps the shorthand metric flags to sort keys, in the
// order they are listed in help output.
var rankFlagKeys = []struct {
	flag      string
	shorthand string
	key       core.SortKey
}{
	{"stars", "S", core.ByStars},
	{"forks", "F", core.ByForks},
	{"open-issues", "I", core.ByOpenIssues},
	{"last-update", "D", core.ByLastUpdate},
	{"pushed", "P", core.ByPushed},
	{"watchers", "W", core.ByWatchers},
	{"commits", "C", core.ByCommits},
	{"branches", "B", core.ByBranches},
}

func init() {
	rootCmd.AddCommand(topCmd)
	addRankFlags(topCmd)
}

// addRankFlags registers the ranking flags, split out so tests can
// build a throwaway command with the same flag set.
func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("rows", "r", 0, "Number of rows to show")

	names := make([]string, 0, len(rankFlagKeys))

	for _, fk := range rankFlagKeys {
		usage := "Rank by " + fk.key.Column()
		if fk.key.Slow() {
			usage += " (one extra request per fork)"
		}

		cmd.Flags().BoolP(fk.flag, fk.shorthand, false, usage)
		names = append(names, fk.flag)
	}

	cmd.MarkFlagsMutuallyExclusive(names...)
}

// selectSortKey picks the metric from the flags that were set. No flag
// means stars, more than one is an error.
func selectSortKey(cmd *cobra.Command) (core.SortKey, error) {
	keyByFlag := make(map[string]core.SortKey, len(rankFlagKeys))
	for _, fk := range rankFlagKeys {
		keyByFlag[fk.flag] = fk.key
	}

	var picked []core.SortKey

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := keyByFlag[f.Name]; ok {
			picked = append(picked, key)
		}
	})

	switch len(picked) {
	case 0:
		return core.ByStars, nil
	case 1:
		return picked[0], nil
	default:
		return "", fmt.Errorf("pass at most one ranking flag, got %d", len(picked))
	}
}

func runTop(cmd *cobra.Command, _ []string) error {
	flags := extractSessionFlags(cmd)

	key, err := selectSortKey(cmd)
	if err != nil {
		return err
	}

	rows, _ := cmd.Flags().GetInt("rows")
	if rows <= 0 {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}

		rows = cfg.Output.Rows
	}

	session, repo, err := newSession(flags)
	if err != nil {
		return err
	}

	defer func() { _ = session.Close() }()

	ind := progress.New(os.Stderr, interactive() && !flags.JSON)
	ind.Start("listing forks of " + repo.FullName())

	defer ind.Stop()

	opts := core.RankOptions{Key: key, Rows: rows}

	if key.Slow() {
		opts.OnProgress = func(done, total int) {
			if done == 1 {
				ind.StartCount(total, "fetching fork details")
			}

			ind.Advance()
		}
	}

	ranking, err := session.RankForks(cmd.Context(), repo, opts)

	ind.Stop()

	if err != nil {
		return err
	}

	if flags.JSON {
		return outputJSON(ranking)
	}

	if ranking.Total == 0 {
		printInfo("%s has no forks", ranking.Repo)

		return nil
	}

	for _, sk := range ranking.Skipped {
		printWarning("fork %s %s, excluded from ranking", sk.Name, sk.Reason)
	}

	if len(ranking.Forks) == 0 {
		printInfo("no forks left to rank")

		return nil
	}

	renderRanking(os.Stdout, ranking)

	printDetail("top %d of %d forks by %s", len(ranking.Forks), ranking.Total, ranking.Key)

	return nil
}

// renderRanking prints the ranking as a bordered grid table. The six
// base columns are always shown, a slow key adds its own column since
// the fork listing has no field for it.
func renderRanking(w io.Writer, ranking *core.Ranking) {
	headers := []string{"URL", "Stars", "Forks", "Open Issues", "Last update", "Pushed At"}
	if ranking.Key.Slow() {
		headers = append(headers, ranking.Key.Column())
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(true)

	for _, f := range ranking.Forks {
		row := []string{
			f.HTMLURL,
			strconv.Itoa(f.Stars),
			strconv.Itoa(f.Forks),
			strconv.Itoa(f.OpenIssues),
			humanizeTime(f.UpdatedAt),
			humanizeTime(f.PushedAt),
		}

		if ranking.Key.Slow() {
			row = append(row, strconv.Itoa(slowMetric(ranking.Key, f)))
		}

		table.Append(row)
	}

	table.Render()
}

// slowMetric reads the per-fork count enrichment filled in for a slow
// sort key.
func slowMetric(key core.SortKey, f *core.Fork) int {
	switch key {
	case core.ByWatchers:
		return f.Watchers
	case core.ByCommits:
		return f.Commits
	case core.ByBranches:
		return f.Branches
	}

	return 0
}

// humanizeTime renders a timestamp like "3 days ago". Forks that never
// saw the event have a zero timestamp.
func humanizeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return humanize.Time(t)
}
