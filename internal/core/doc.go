// Package core implements the fork analysis engines behind the forkr
// commands.
//
// Everything runs through a Session, which bundles the GitHub API
// client with the on-disk response cache and carries the resolved
// authentication. The engines themselves are thin: list a collection,
// enrich it with secondary requests when the metric demands it, filter
// or sort, and hand structured results back to the cmd layer.
//
// # Design Principles
//
//   - Functions return errors instead of printing to stdout/stderr
//   - All API access goes through the Session's cached HTTP client
//   - Rendering and prompting belong in the cmd package, not here
//
// # Fork Scans
//
// The two engines mirror the two data commands:
//
//  1. [Session.NovelCommits] - commits found in forks but nowhere upstream
//  2. [Session.RankForks] - forks ordered descending by a chosen metric
//
// Both tolerate forks that were deleted or emptied between the fork
// listing and the per-fork calls, reporting them as skipped instead of
// failing the run.
package core
