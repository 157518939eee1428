package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/google/go-github/v82/github"
)

// NotFoundError indicates GitHub no longer serves a repository
type NotFoundError struct {
	Repo string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s", e.Repo)
}

// EmptyRepoError indicates a repository with no commits to list
type EmptyRepoError struct {
	Repo string
}

func (e *EmptyRepoError) Error() string {
	return fmt.Sprintf("repository is empty: %s", e.Repo)
}

// AuthError wraps rejected or missing credentials
type AuthError struct {
	Host string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication with %s failed: %v", e.Host, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// classifyAPIError converts go-github errors into the typed errors the
// engines fan out on. Rate limit errors get the reset time stitched
// into the message, an unauthenticated scan of a big fork network hits
// the 60 requests per hour ceiling quickly.
func classifyAPIError(repo string, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		if reset := rateErr.Rate.Reset.Time; !reset.IsZero() {
			return fmt.Errorf("rate limit exhausted, resets %s: %w", humanize.Time(reset), err)
		}

		return err
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if retry := abuseErr.GetRetryAfter(); retry > 0 {
			return fmt.Errorf("secondary rate limit hit, retry in %s: %w", retry, err)
		}

		return err
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return &NotFoundError{Repo: repo}
		case http.StatusConflict:
			return &EmptyRepoError{Repo: repo}
		case http.StatusUnauthorized, http.StatusForbidden:
			host := "github.com"
			if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
				host = ghErr.Response.Request.URL.Host
			}
			return &AuthError{Host: host, Err: err}
		}
	}

	return err
}

// SkipReason categorizes why a fork was left out of a scan
type SkipReason int

const (
	SkipReasonNone SkipReason = iota
	SkipReasonNotFound
	SkipReasonEmpty
)

func (r SkipReason) String() string {
	switch r {
	case SkipReasonNone:
		return ""
	case SkipReasonNotFound:
		return "no longer exists"
	case SkipReasonEmpty:
		return "empty repository"
	}
	return ""
}

// skipReasonFor maps a scan error to a skip reason, or SkipReasonNone
// when the error is fatal and should abort the run.
func skipReasonFor(err error) SkipReason {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return SkipReasonNotFound
	}

	var empty *EmptyRepoError
	if errors.As(err, &empty) {
		return SkipReasonEmpty
	}

	return SkipReasonNone
}
