package core

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-github/v82/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitList(messages ...string) []github.RepositoryCommit {
	commits := make([]github.RepositoryCommit, 0, len(messages))

	for _, m := range messages {
		commits = append(commits, github.RepositoryCommit{
			Commit: &github.Commit{Message: github.Ptr(m)},
		})
	}

	return commits
}

func forkList(owners ...string) []github.Repository {
	forks := make([]github.Repository, 0, len(owners))

	for _, owner := range owners {
		forks = append(forks, github.Repository{
			Owner:    &github.User{Login: github.Ptr(owner)},
			Name:     github.Ptr("hello-world"),
			FullName: github.Ptr(owner + "/hello-world"),
			HTMLURL:  github.Ptr("https://github.com/" + owner + "/hello-world"),
		})
	}

	return forks
}

// commitsByPath routes the shared commits endpoint per repository.
// Entries mapping to nil answer 404, entries mapping to an empty slice
// answer 409 like GitHub does for empty repositories.
func commitsByPath(commits map[string][]string) githubMock.MockBackendOption {
	return githubMock.WithRequestMatchHandler(
		githubMock.GetReposCommitsByOwnerByRepo,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			messages, ok := commits[ownerOf(r)]
			if !ok {
				writeJSONError(w, http.StatusNotFound, "Not Found")

				return
			}

			if len(messages) == 0 {
				writeJSONError(w, http.StatusConflict, "Git Repository is empty.")

				return
			}

			_, _ = w.Write(githubMock.MustMarshal(commitList(messages...)))
		}),
	)
}

func TestNovelCommits(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("alice", "bob", "carol"),
		),
		commitsByPath(map[string][]string{
			"octocat": {"Add readme", "Initial commit"},
			"alice":   {"Fix crash on empty input", "Fix crash on empty input", "Add readme", "Initial commit"},
			"bob":     {"Add readme", "Initial commit"},
		}),
	)

	var (
		streamed []string
		skipped  []string
	)

	report, err := session.NovelCommits(context.Background(), upstreamRepo, NovelOptions{
		OnFork: func(n *ForkNovelty) {
			streamed = append(streamed, n.Fork.FullName)
		},
		OnSkip: func(sk SkippedFork) {
			skipped = append(skipped, sk.Name)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello-world", report.Repo)
	assert.Equal(t, 3, report.ForksTotal)

	// alice has one novel commit, duplicated messages collapse to the
	// most recent occurrence
	require.Len(t, report.Novel, 1)
	assert.Equal(t, "alice/hello-world", report.Novel[0].Fork.FullName)
	assert.Equal(t, []Commit{{Position: 1, Message: "Fix crash on empty input"}}, report.Novel[0].Commits)

	// carol vanished mid-scan
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "carol/hello-world", report.Skipped[0].Name)
	assert.Equal(t, "no longer exists", report.Skipped[0].Reason)

	// callbacks fired while scanning
	assert.Equal(t, []string{"alice/hello-world"}, streamed)
	assert.Equal(t, []string{"carol/hello-world"}, skipped)
}

func TestNovelCommits_PreservesForkOrder(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("bob", "alice"),
		),
		commitsByPath(map[string][]string{
			"octocat": {"Initial commit"},
			"bob":     {"Teach parser about unicode", "Initial commit"},
			"alice":   {"Rewrite in rust", "Initial commit"},
		}),
	)

	report, err := session.NovelCommits(context.Background(), upstreamRepo, NovelOptions{})
	require.NoError(t, err)

	require.Len(t, report.Novel, 2)
	assert.Equal(t, "bob/hello-world", report.Novel[0].Fork.FullName)
	assert.Equal(t, "alice/hello-world", report.Novel[1].Fork.FullName)
}

func TestNovelCommits_EmptyFork(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("alice"),
		),
		commitsByPath(map[string][]string{
			"octocat": {"Initial commit"},
			"alice":   {},
		}),
	)

	report, err := session.NovelCommits(context.Background(), upstreamRepo, NovelOptions{})
	require.NoError(t, err)

	assert.Empty(t, report.Novel)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "empty repository", report.Skipped[0].Reason)
}

func TestNovelCommits_EmptyUpstream(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("alice"),
		),
		commitsByPath(map[string][]string{
			"octocat": {},
			"alice":   {"Start over from scratch"},
		}),
	)

	report, err := session.NovelCommits(context.Background(), upstreamRepo, NovelOptions{})
	require.NoError(t, err)

	// nothing upstream, so every fork commit is novel
	require.Len(t, report.Novel, 1)
	assert.Equal(t, []Commit{{Position: 1, Message: "Start over from scratch"}}, report.Novel[0].Commits)
}

func TestNovelCommits_UpstreamNotFoundFails(t *testing.T) {
	session := mockSession(t,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSONError(w, http.StatusNotFound, "Not Found")
			}),
		),
	)

	_, err := session.NovelCommits(context.Background(), upstreamRepo, NovelOptions{})
	require.Error(t, err)
	assert.IsType(t, &NotFoundError{}, err)
}

// history builds a commit listing the way ListCommits would, positions
// counted from the newest commit.
func history(messages ...string) []Commit {
	commits := make([]Commit, 0, len(messages))

	for i, m := range messages {
		commits = append(commits, Commit{Position: i + 1, Message: m})
	}

	return commits
}

func TestNovelCommits_Filtering(t *testing.T) {
	upstream := map[string]struct{}{
		"Initial commit": {},
		"Add readme":     {},
	}

	tests := []struct {
		name    string
		commits []Commit
		want    []Commit
	}{
		{
			name:    "all known upstream",
			commits: history("Add readme", "Initial commit"),
			want:    nil,
		},
		{
			name:    "novel kept in order with positions",
			commits: history("Fix tests", "Add readme", "Fix lint"),
			want:    []Commit{{Position: 1, Message: "Fix tests"}, {Position: 3, Message: "Fix lint"}},
		},
		{
			name:    "duplicates collapse to the newest",
			commits: history("Fix tests", "Fix tests", "Fix tests"),
			want:    []Commit{{Position: 1, Message: "Fix tests"}},
		},
		{
			name:    "empty fork",
			commits: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, novelCommits(upstream, tt.commits))
		})
	}
}
