package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v82/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/inovacc/forkr/internal/respcache"
)

// SessionOptions configures a GitHub API session.
type SessionOptions struct {
	// Token authenticates requests when set. Takes precedence over
	// Username/Password.
	Token string

	// Username and Password select basic auth, the interactive
	// fallback when no token could be resolved.
	Username string
	Password string

	// Host is the GitHub host, github.com unless talking to an
	// enterprise instance.
	Host string

	// CacheTTL is how long cached API responses stay fresh.
	CacheTTL time.Duration

	// CachePath overrides the default cache database location.
	CachePath string

	// NoCache disables the response cache entirely.
	NoCache bool
}

// Session bundles the API client with the response cache backing it.
// All fork analysis runs through one session so every request shares
// the same auth and cache configuration.
type Session struct {
	client *github.Client
	store  *respcache.Store
	host   string
}

// NewSession builds a session from the resolved options. A broken
// cache store degrades to uncached operation instead of failing the
// command.
func NewSession(opts SessionOptions) (*Session, error) {
	host := opts.Host
	if host == "" {
		host = "github.com"
	}

	httpClient := &http.Client{}

	var store *respcache.Store

	if !opts.NoCache {
		store = openCacheStore(opts.CachePath)
		if store != nil {
			ttl := opts.CacheTTL
			if ttl <= 0 {
				ttl = respcache.DefaultTTL
			}

			httpClient = &http.Client{Transport: respcache.NewTransport(store, ttl, nil)}
		}
	}

	authed := httpClient

	switch {
	case opts.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		authed = oauth2.NewClient(ctx, ts)
	case opts.Username != "" && opts.Password != "":
		bt := &github.BasicAuthTransport{
			Username:  opts.Username,
			Password:  opts.Password,
			Transport: httpClient.Transport,
		}
		authed = bt.Client()
	}

	client, err := newAPIClient(authed, host)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}

		return nil, err
	}

	return &Session{client: client, store: store, host: host}, nil
}

// NewSessionWithClient wraps an existing API client, used by tests to
// inject a mocked transport.
func NewSessionWithClient(client *github.Client) *Session {
	return &Session{client: client, host: "github.com"}
}

// Host returns the GitHub host this session talks to.
func (s *Session) Host() string {
	return s.host
}

// Cached reports whether responses are being cached.
func (s *Session) Cached() bool {
	return s.store != nil
}

// Close releases the cache store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}

	return s.store.Close()
}

// openCacheStore opens the response cache, logging instead of failing
// when the database cannot be used. A second forkr process holding the
// bolt lock lands here too.
func openCacheStore(path string) *respcache.Store {
	var err error

	if path == "" {
		path, err = respcache.DefaultPath()
		if err != nil {
			log.WithError(err).Warn("cannot locate cache directory, caching disabled")

			return nil
		}
	}

	store, err := respcache.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("cannot open response cache, caching disabled")

		return nil
	}

	return store
}

// newAPIClient creates a GitHub API client for the host, wiring the
// enterprise endpoints when the host is not github.com.
func newAPIClient(httpClient *http.Client, host string) (*github.Client, error) {
	client := github.NewClient(httpClient)

	if host == "" || host == "github.com" {
		return client, nil
	}

	baseURL := fmt.Sprintf("https://%s/api/v3/", host)
	uploadURL := fmt.Sprintf("https://%s/api/uploads/", host)

	client, err := client.WithEnterpriseURLs(baseURL, uploadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure enterprise client: %w", err)
	}

	return client, nil
}
