package core

import (
	"context"
	"sort"

	"github.com/inovacc/forkr/internal/giturl"
)

// SortKey selects the metric a fork ranking is ordered by.
type SortKey string

const (
	ByStars      SortKey = "stars"
	ByForks      SortKey = "forks"
	ByOpenIssues SortKey = "open-issues"
	ByLastUpdate SortKey = "last-update"
	ByPushed     SortKey = "pushed"
	ByWatchers   SortKey = "watchers"
	ByCommits    SortKey = "commits"
	ByBranches   SortKey = "branches"
)

// Slow reports whether ranking by this key costs one extra API call
// per fork. The fork listing payload already carries the fast keys.
func (k SortKey) Slow() bool {
	switch k {
	case ByWatchers, ByCommits, ByBranches:
		return true
	}

	return false
}

// Column is the table heading for the key's value column.
func (k SortKey) Column() string {
	switch k {
	case ByStars:
		return "Stars"
	case ByForks:
		return "Forks"
	case ByOpenIssues:
		return "Open Issues"
	case ByLastUpdate:
		return "Last update"
	case ByPushed:
		return "Pushed At"
	case ByWatchers:
		return "Watchers"
	case ByCommits:
		return "Commits"
	case ByBranches:
		return "Branches"
	}

	return string(k)
}

// value flattens the keyed metric into a sortable integer. Times sort
// by nanosecond timestamp, so a never-updated fork with a zero time
// lands at the bottom.
func (k SortKey) value(f *Fork) int64 {
	switch k {
	case ByStars:
		return int64(f.Stars)
	case ByForks:
		return int64(f.Forks)
	case ByOpenIssues:
		return int64(f.OpenIssues)
	case ByLastUpdate:
		return f.UpdatedAt.UnixNano()
	case ByPushed:
		return f.PushedAt.UnixNano()
	case ByWatchers:
		return int64(f.Watchers)
	case ByCommits:
		return int64(f.Commits)
	case ByBranches:
		return int64(f.Branches)
	}

	return 0
}

// RankOptions configures a ranking run.
type RankOptions struct {
	Key  SortKey
	Rows int

	// OnProgress fires after each per-fork detail fetch when the key
	// is slow. done counts from 1 to total.
	OnProgress func(done, total int)
}

// Ranking is a fork ranking, ordered best first.
type Ranking struct {
	Repo    string        `json:"repo"`
	Key     SortKey       `json:"key"`
	Total   int           `json:"forks_total"`
	Forks   []*Fork       `json:"forks"`
	Skipped []SkippedFork `json:"skipped,omitempty"`
}

// RankForks lists all forks, enriches them when the key requires the
// per-fork call, and returns the top rows ordered by the key. Ties
// keep the API order, so equal forks stay in GitHub's oldest-first
// listing order.
func (s *Session) RankForks(ctx context.Context, repo giturl.Repository, opts RankOptions) (*Ranking, error) {
	origin, err := s.FetchRepository(ctx, repo)
	if err != nil {
		return nil, err
	}

	forks, err := s.ListForks(ctx, repo)
	if err != nil {
		return nil, err
	}

	ranking := &Ranking{
		Repo:  origin.FullName,
		Key:   opts.Key,
		Total: len(forks),
	}

	if opts.Key.Slow() {
		forks, err = s.enrichForks(ctx, forks, opts, ranking)
		if err != nil {
			return nil, err
		}
	}

	key := opts.Key

	sort.SliceStable(forks, func(i, j int) bool {
		return key.value(forks[i]) > key.value(forks[j])
	})

	if opts.Rows > 0 && len(forks) > opts.Rows {
		forks = forks[:opts.Rows]
	}

	ranking.Forks = forks

	return ranking, nil
}

// enrichForks runs the per-fork detail call for a slow key, dropping
// forks that vanished mid-scan.
func (s *Session) enrichForks(ctx context.Context, forks []*Fork, opts RankOptions, ranking *Ranking) ([]*Fork, error) {
	kept := forks[:0]

	for i, f := range forks {
		var (
			value int
			err   error
		)

		switch opts.Key {
		case ByWatchers:
			value, err = s.countWatchers(ctx, f)
			f.Watchers = value
		case ByCommits:
			value, err = s.countCommits(ctx, f)
			f.Commits = value
		case ByBranches:
			value, err = s.countBranches(ctx, f)
			f.Branches = value
		}

		if err != nil {
			reason := skipReasonFor(err)
			if reason == SkipReasonNone {
				return nil, err
			}

			ranking.Skipped = append(ranking.Skipped, SkippedFork{
				Name:   f.FullName,
				Reason: reason.String(),
			})
		} else {
			kept = append(kept, f)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(forks))
		}
	}

	return kept, nil
}
