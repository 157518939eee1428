package core

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/inovacc/forkr/internal/giturl"
)

// ForkNovelty is one fork together with the commits found in it but
// nowhere upstream, most recent first. Each commit keeps its position
// in the fork's full history.
type ForkNovelty struct {
	Fork    *Fork    `json:"fork"`
	Commits []Commit `json:"commits"`
}

// SkippedFork records a fork the scan could not read.
type SkippedFork struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// NovelReport is the outcome of a full novel-commit scan.
type NovelReport struct {
	Repo       string         `json:"repo"`
	ForksTotal int            `json:"forks_total"`
	Novel      []*ForkNovelty `json:"novel"`
	Skipped    []SkippedFork  `json:"skipped,omitempty"`
}

// NovelOptions carries the streaming callbacks. Both are optional and
// both fire while the scan is still running, so output appears fork by
// fork instead of after the last API call.
type NovelOptions struct {
	OnFork func(n *ForkNovelty)
	OnSkip func(sk SkippedFork)
}

// NovelCommits scans every fork for commits whose messages never
// appear on the upstream default branch. Matching is by full commit
// message, a cherry-pick or rebase changes the SHA but keeps the
// message. Forks that vanished or were emptied are skipped, any other
// API failure aborts the scan.
func (s *Session) NovelCommits(ctx context.Context, repo giturl.Repository, opts NovelOptions) (*NovelReport, error) {
	origin, err := s.FetchRepository(ctx, repo)
	if err != nil {
		return nil, err
	}

	upstream, err := s.ListCommits(ctx, origin.Owner, origin.Name)
	if err != nil {
		// An upstream with no commits still has forks worth scanning,
		// every message in them is novel then.
		var empty *EmptyRepoError
		if !errors.As(err, &empty) {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(upstream))
	for _, c := range upstream {
		seen[c.Message] = struct{}{}
	}

	forks, err := s.ListForks(ctx, repo)
	if err != nil {
		return nil, err
	}

	report := &NovelReport{
		Repo:       origin.FullName,
		ForksTotal: len(forks),
	}

	for _, fork := range forks {
		commits, err := s.ListCommits(ctx, fork.Owner, fork.Name)
		if err != nil {
			reason := skipReasonFor(err)
			if reason == SkipReasonNone {
				return nil, err
			}

			sk := SkippedFork{Name: fork.FullName, Reason: reason.String()}
			report.Skipped = append(report.Skipped, sk)

			log.WithFields(log.Fields{
				"fork":   sk.Name,
				"reason": sk.Reason,
			}).Debug("skipping fork")

			if opts.OnSkip != nil {
				opts.OnSkip(sk)
			}

			continue
		}

		novel := novelCommits(seen, commits)
		if len(novel) == 0 {
			continue
		}

		n := &ForkNovelty{Fork: fork, Commits: novel}
		report.Novel = append(report.Novel, n)

		if opts.OnFork != nil {
			opts.OnFork(n)
		}
	}

	return report, nil
}

// novelCommits filters the fork's history down to commits whose
// message is absent upstream, deduplicated within the fork so a
// message repeated across its merges is reported once, at its most
// recent position.
func novelCommits(upstream map[string]struct{}, commits []Commit) []Commit {
	var novel []Commit

	local := make(map[string]struct{})

	for _, c := range commits {
		if _, ok := upstream[c.Message]; ok {
			continue
		}

		if _, ok := local[c.Message]; ok {
			continue
		}

		local[c.Message] = struct{}{}

		novel = append(novel, c)
	}

	return novel
}
