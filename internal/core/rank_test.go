package core

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v82/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKey_Slow(t *testing.T) {
	fast := []SortKey{ByStars, ByForks, ByOpenIssues, ByLastUpdate, ByPushed}
	for _, k := range fast {
		assert.False(t, k.Slow(), "%s should be a fast key", k)
	}

	slow := []SortKey{ByWatchers, ByCommits, ByBranches}
	for _, k := range slow {
		assert.True(t, k.Slow(), "%s should be a slow key", k)
	}
}

func TestRankForks_FastKey(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			[]github.Repository{
				{FullName: github.Ptr("alice/hello-world"), StargazersCount: github.Ptr(5)},
				{FullName: github.Ptr("bob/hello-world"), StargazersCount: github.Ptr(50)},
				{FullName: github.Ptr("carol/hello-world"), StargazersCount: github.Ptr(10)},
			},
		),
	)

	ranking, err := session.RankForks(context.Background(), upstreamRepo, RankOptions{
		Key:  ByStars,
		Rows: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello-world", ranking.Repo)
	assert.Equal(t, ByStars, ranking.Key)
	assert.Equal(t, 3, ranking.Total)

	require.Len(t, ranking.Forks, 2)
	assert.Equal(t, "bob/hello-world", ranking.Forks[0].FullName)
	assert.Equal(t, "carol/hello-world", ranking.Forks[1].FullName)
}

func TestRankForks_TiesKeepAPIOrder(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			[]github.Repository{
				{FullName: github.Ptr("alice/hello-world"), StargazersCount: github.Ptr(1)},
				{FullName: github.Ptr("bob/hello-world"), StargazersCount: github.Ptr(1)},
				{FullName: github.Ptr("carol/hello-world"), StargazersCount: github.Ptr(1)},
			},
		),
	)

	ranking, err := session.RankForks(context.Background(), upstreamRepo, RankOptions{Key: ByStars})
	require.NoError(t, err)

	require.Len(t, ranking.Forks, 3)
	assert.Equal(t, "alice/hello-world", ranking.Forks[0].FullName)
	assert.Equal(t, "bob/hello-world", ranking.Forks[1].FullName)
	assert.Equal(t, "carol/hello-world", ranking.Forks[2].FullName)
}

func TestRankForks_ByLastUpdate(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			[]github.Repository{
				{
					FullName:  github.Ptr("alice/hello-world"),
					UpdatedAt: &github.Timestamp{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
				},
				{
					FullName:  github.Ptr("bob/hello-world"),
					UpdatedAt: &github.Timestamp{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
				},
				{
					// never updated, zero time sorts last
					FullName: github.Ptr("carol/hello-world"),
				},
			},
		),
	)

	ranking, err := session.RankForks(context.Background(), upstreamRepo, RankOptions{Key: ByLastUpdate})
	require.NoError(t, err)

	require.Len(t, ranking.Forks, 3)
	assert.Equal(t, "bob/hello-world", ranking.Forks[0].FullName)
	assert.Equal(t, "alice/hello-world", ranking.Forks[1].FullName)
	assert.Equal(t, "carol/hello-world", ranking.Forks[2].FullName)
}

func TestRankForks_ByWatchers(t *testing.T) {
	// octocat is the upstream lookup, the rest are the per-fork calls
	watchers := map[string]int{"octocat": 5, "alice": 3, "bob": 7}

	session := mockSession(t,
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("alice", "bob", "carol"),
		),
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				owner := ownerOf(r)

				count, ok := watchers[owner]
				if !ok {
					writeJSONError(w, http.StatusNotFound, "Not Found")

					return
				}

				_, _ = w.Write(githubMock.MustMarshal(github.Repository{
					FullName:         github.Ptr(owner + "/hello-world"),
					SubscribersCount: github.Ptr(count),
				}))
			}),
		),
	)

	var progress [][2]int

	ranking, err := session.RankForks(context.Background(), upstreamRepo, RankOptions{
		Key: ByWatchers,
		OnProgress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})
	require.NoError(t, err)

	require.Len(t, ranking.Forks, 2)
	assert.Equal(t, "bob/hello-world", ranking.Forks[0].FullName)
	assert.Equal(t, 7, ranking.Forks[0].Watchers)
	assert.Equal(t, "alice/hello-world", ranking.Forks[1].FullName)

	// carol vanished between listing and detail fetch
	require.Len(t, ranking.Skipped, 1)
	assert.Equal(t, "carol/hello-world", ranking.Skipped[0].Name)

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
}

func TestRankForks_ByCommits(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("alice", "bob"),
		),
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposContributorsByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ownerOf(r) == "alice" {
					_, _ = w.Write(githubMock.MustMarshal([]github.Contributor{
						{Login: github.Ptr("alice"), Contributions: github.Ptr(40)},
						{Login: github.Ptr("octocat"), Contributions: github.Ptr(2)},
					}))

					return
				}

				// bob never committed anything on top
				_, _ = w.Write(githubMock.MustMarshal([]github.Contributor{}))
			}),
		),
	)

	ranking, err := session.RankForks(context.Background(), upstreamRepo, RankOptions{Key: ByCommits})
	require.NoError(t, err)

	require.Len(t, ranking.Forks, 2)
	assert.Equal(t, "alice/hello-world", ranking.Forks[0].FullName)
	assert.Equal(t, 42, ranking.Forks[0].Commits)
	assert.Equal(t, 0, ranking.Forks[1].Commits)
}

func TestRankForks_ByBranches(t *testing.T) {
	session := mockSession(t,
		upstreamGet(),
		githubMock.WithRequestMatch(
			githubMock.GetReposForksByOwnerByRepo,
			forkList("alice", "bob"),
		),
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposBranchesByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				branches := []github.Branch{{Name: github.Ptr("main")}}

				if ownerOf(r) == "alice" {
					branches = append(branches,
						github.Branch{Name: github.Ptr("feature/parser")},
						github.Branch{Name: github.Ptr("wip")},
					)
				}

				_, _ = w.Write(githubMock.MustMarshal(branches))
			}),
		),
	)

	ranking, err := session.RankForks(context.Background(), upstreamRepo, RankOptions{Key: ByBranches})
	require.NoError(t, err)

	require.Len(t, ranking.Forks, 2)
	assert.Equal(t, "alice/hello-world", ranking.Forks[0].FullName)
	assert.Equal(t, 3, ranking.Forks[0].Branches)
	assert.Equal(t, 1, ranking.Forks[1].Branches)
}

func TestSortKey_Column(t *testing.T) {
	tests := []struct {
		key  SortKey
		want string
	}{
		{ByStars, "Stars"},
		{ByForks, "Forks"},
		{ByOpenIssues, "Open Issues"},
		{ByLastUpdate, "Last update"},
		{ByPushed, "Pushed At"},
		{ByWatchers, "Watchers"},
		{ByCommits, "Commits"},
		{ByBranches, "Branches"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.Column())
		})
	}
}
