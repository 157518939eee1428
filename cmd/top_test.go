package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/inovacc/forkr/internal/core"
)

func rankCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "top"}
	addRankFlags(cmd)

	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}

	return cmd
}

func TestSelectSortKey(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want core.SortKey
	}{
		{"default is stars", nil, core.ByStars},
		{"stars shorthand", []string{"-S"}, core.ByStars},
		{"forks shorthand", []string{"-F"}, core.ByForks},
		{"open issues shorthand", []string{"-I"}, core.ByOpenIssues},
		{"last update shorthand", []string{"-D"}, core.ByLastUpdate},
		{"pushed shorthand", []string{"-P"}, core.ByPushed},
		{"watchers shorthand", []string{"-W"}, core.ByWatchers},
		{"commits shorthand", []string{"-C"}, core.ByCommits},
		{"branches shorthand", []string{"-B"}, core.ByBranches},
		{"long flag", []string{"--open-issues"}, core.ByOpenIssues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := selectSortKey(rankCommand(t, tt.args...))
			if err != nil {
				t.Fatalf("selectSortKey() error = %v", err)
			}

			if key != tt.want {
				t.Errorf("selectSortKey() = %v, want %v", key, tt.want)
			}
		})
	}
}

func TestSelectSortKey_RejectsMultiple(t *testing.T) {
	// cobra's flag-group validation only runs on Execute, a directly
	// parsed command still reaches selectSortKey with both flags set
	_, err := selectSortKey(rankCommand(t, "-S", "-W"))
	if err == nil {
		t.Fatal("selectSortKey() should reject two ranking flags")
	}
}

func rankingFixture(key core.SortKey) *core.Ranking {
	return &core.Ranking{
		Repo:  "pallets/flask",
		Key:   key,
		Total: 2,
		Forks: []*core.Fork{
			{
				FullName:   "alice/flask",
				HTMLURL:    "https://github.com/alice/flask",
				Stars:      120,
				Forks:      4,
				OpenIssues: 3,
				Watchers:   9,
				UpdatedAt:  time.Now().Add(-48 * time.Hour),
				PushedAt:   time.Now().Add(-24 * time.Hour),
			},
			{
				FullName: "bob/flask",
				HTMLURL:  "https://github.com/bob/flask",
				Stars:    7,
				Watchers: 2,
			},
		},
	}
}

func TestRenderRanking(t *testing.T) {
	var buf bytes.Buffer

	renderRanking(&buf, rankingFixture(core.ByStars))

	out := buf.String()

	for _, want := range []string{
		"URL", "STARS", "FORKS", "OPEN ISSUES", "LAST UPDATE", "PUSHED AT",
		"https://github.com/alice/flask",
		"https://github.com/bob/flask",
		"120", "days ago", "never",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	// ranking order: alice before bob
	if strings.Index(out, "alice/flask") > strings.Index(out, "bob/flask") {
		t.Error("table rows out of order")
	}

	// fast keys have no extra column
	if strings.Contains(out, "WATCHERS") {
		t.Error("fast-key table should not append a metric column")
	}
}

func TestRenderRanking_SlowKeyColumn(t *testing.T) {
	var buf bytes.Buffer

	renderRanking(&buf, rankingFixture(core.ByWatchers))

	out := buf.String()

	if !strings.Contains(out, "WATCHERS") {
		t.Errorf("slow-key table missing its metric column:\n%s", out)
	}

	if !strings.Contains(out, "9") {
		t.Errorf("slow-key table missing the metric value:\n%s", out)
	}
}

func TestSlowMetric(t *testing.T) {
	fork := &core.Fork{Watchers: 2, Commits: 15, Branches: 6}

	tests := []struct {
		key  core.SortKey
		want int
	}{
		{core.ByWatchers, 2},
		{core.ByCommits, 15},
		{core.ByBranches, 6},
		{core.ByStars, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if got := slowMetric(tt.key, fork); got != tt.want {
				t.Errorf("slowMetric(%v) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestHumanizeTime(t *testing.T) {
	if got := humanizeTime(time.Time{}); got != "never" {
		t.Errorf("humanizeTime(zero) = %q, want %q", got, "never")
	}

	if got := humanizeTime(time.Now().Add(-time.Hour)); !strings.Contains(got, "ago") {
		t.Errorf("humanizeTime(-1h) = %q, want a relative time", got)
	}
}
