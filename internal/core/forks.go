package core

import (
	"context"
	"time"

	"github.com/google/go-github/v82/github"
	log "github.com/sirupsen/logrus"

	"github.com/inovacc/forkr/internal/giturl"
)

// listPageSize is the page size for every list endpoint. GitHub caps
// per_page at 100.
const listPageSize = 100

// Fork is the slice of repository metadata fork analysis works with.
// Watchers, Commits and Branches are only populated when a ranking
// explicitly asks for them, each costs an extra API call per fork.
type Fork struct {
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	HTMLURL       string    `json:"html_url"`
	DefaultBranch string    `json:"default_branch"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"open_issues"`
	UpdatedAt     time.Time `json:"updated_at"`
	PushedAt      time.Time `json:"pushed_at"`
	Watchers      int       `json:"watchers,omitempty"`
	Commits       int       `json:"commits,omitempty"`
	Branches      int       `json:"branches,omitempty"`
}

// newFork maps the API repository payload onto a Fork. The watchers
// count is deliberately not taken from here, the list payload reports
// stargazers under that name.
func newFork(r *github.Repository) *Fork {
	return &Fork{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		UpdatedAt:     r.GetUpdatedAt().Time,
		PushedAt:      r.GetPushedAt().Time,
	}
}

// FetchRepository loads the upstream repository metadata.
func (s *Session) FetchRepository(ctx context.Context, repo giturl.Repository) (*Fork, error) {
	r, _, err := s.client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, classifyAPIError(repo.FullName(), err)
	}

	return newFork(r), nil
}

// ListForks returns every fork of the repository, following pagination
// and preserving the API order.
func (s *Session) ListForks(ctx context.Context, repo giturl.Repository) ([]*Fork, error) {
	opts := &github.RepositoryListForksOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var forks []*Fork

	for {
		page, resp, err := s.client.Repositories.ListForks(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, classifyAPIError(repo.FullName(), err)
		}

		for _, r := range page {
			forks = append(forks, newFork(r))
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	log.WithFields(log.Fields{
		"repo":  repo.FullName(),
		"forks": len(forks),
	}).Debug("listed forks")

	return forks, nil
}

// Commit is one commit in a repository's history. Position is its
// 1-based place in the listing, 1 being the most recent commit.
type Commit struct {
	Position int    `json:"position"`
	Message  string `json:"message"`
	HTMLURL  string `json:"html_url"`
}

// ListCommits returns the commit history of the repository's default
// branch, most recent first.
func (s *Session) ListCommits(ctx context.Context, owner, name string) ([]Commit, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var commits []Commit

	for {
		page, resp, err := s.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, classifyAPIError(owner+"/"+name, err)
		}

		for _, c := range page {
			commits = append(commits, Commit{
				Position: len(commits) + 1,
				Message:  c.GetCommit().GetMessage(),
				HTMLURL:  c.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return commits, nil
}

// countWatchers fetches the subscriber count. The fork listing cannot
// provide it, its watchers_count field mirrors stargazers.
func (s *Session) countWatchers(ctx context.Context, f *Fork) (int, error) {
	r, _, err := s.client.Repositories.Get(ctx, f.Owner, f.Name)
	if err != nil {
		return 0, classifyAPIError(f.FullName, err)
	}

	return r.GetSubscribersCount(), nil
}

// countBranches counts the branches of a fork.
func (s *Session) countBranches(ctx context.Context, f *Fork) (int, error) {
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	count := 0

	for {
		page, resp, err := s.client.Repositories.ListBranches(ctx, f.Owner, f.Name, opts)
		if err != nil {
			return 0, classifyAPIError(f.FullName, err)
		}

		count += len(page)

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return count, nil
}

// countCommits sums contributor contributions, which the contributors
// endpoint reports in one listing instead of a walk over every commit
// page. Empty repositories answer 204 and count as zero.
func (s *Session) countCommits(ctx context.Context, f *Fork) (int, error) {
	opts := &github.ListContributorsOptions{
		Anon:        "true",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	count := 0

	for {
		page, resp, err := s.client.Repositories.ListContributors(ctx, f.Owner, f.Name, opts)
		if err != nil {
			return 0, classifyAPIError(f.FullName, err)
		}

		for _, c := range page {
			count += c.GetContributions()
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return count, nil
}
