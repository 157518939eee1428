package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inovacc/forkr/internal/config"
	"github.com/inovacc/forkr/internal/core"
	"github.com/inovacc/forkr/internal/giturl"
	"github.com/inovacc/forkr/internal/respcache"
)

// SessionFlags holds the flags shared by the data commands
type SessionFlags struct {
	Repo    string
	Token   string
	JSON    bool
	NoCache bool
}

// extractSessionFlags extracts the shared flags from a cobra command
func extractSessionFlags(cmd *cobra.Command) SessionFlags {
	repo, _ := cmd.Flags().GetString("repo")
	token, _ := cmd.Flags().GetString("token")
	jsonOut, _ := cmd.Flags().GetBool("json")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	return SessionFlags{
		Repo:    repo,
		Token:   token,
		JSON:    jsonOut,
		NoCache: noCache,
	}
}

// newSession resolves the target repository and builds the API session
// every data command runs against. The caller owns the session and
// must Close it.
func newSession(flags SessionFlags) (*core.Session, giturl.Repository, error) {
	if flags.Repo == "" {
		return nil, giturl.Repository{}, errors.New("no repository given, pass it as the first argument or with --repo")
	}

	repo, err := giturl.ParseRepository(flags.Repo)
	if err != nil {
		return nil, giturl.Repository{}, err
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("cannot read config file, using defaults")

		cfg = config.Default()
	}

	opts := core.SessionOptions{
		Host:     repo.Host,
		CacheTTL: time.Duration(cfg.Cache.TTLHours) * time.Hour,
		NoCache:  flags.NoCache || cfg.Cache.Disabled,
	}

	// A configured enterprise endpoint applies when the reference does
	// not name a host itself.
	if cfg.GitHub.APIURL != "" && repo.IsGitHub() {
		if u, perr := url.Parse(cfg.GitHub.APIURL); perr == nil && u.Host != "" {
			opts.Host = u.Host
		}
	}

	if cfg.Cache.Dir != "" {
		opts.CachePath = respcache.PathIn(cfg.Cache.Dir)
	}

	token, source := core.ResolveTokenForHost(flags.Token, opts.Host, cfg)
	if token != "" {
		log.WithField("source", source).Debug("resolved GitHub token")

		opts.Token = token
	} else if interactive() && !flags.JSON {
		opts.Username, opts.Password, err = promptBasicAuth()
		if err != nil {
			return nil, giturl.Repository{}, err
		}
	}

	if opts.Token == "" && opts.Username == "" {
		log.Warn("no GitHub token found, unauthenticated requests are limited to 60 per hour")
	}

	session, err := core.NewSession(opts)
	if err != nil {
		return nil, giturl.Repository{}, err
	}

	log.WithFields(log.Fields{
		"repo":   repo.URL(),
		"host":   session.Host(),
		"cached": session.Cached(),
	}).Debug("session ready")

	return session, *repo, nil
}

// interactive reports whether both ends of the conversation are a
// terminal, the precondition for prompting.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// promptBasicAuth asks for GitHub credentials, an empty username means
// the user chose to continue anonymously.
func promptBasicAuth() (username, password string, err error) {
	_, _ = fmt.Fprint(os.Stderr, "GitHub username (leave empty for anonymous access): ")

	reader := bufio.NewReader(os.Stdin)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}

	username = strings.TrimSpace(line)
	if username == "" {
		return "", "", nil
	}

	_, _ = fmt.Fprint(os.Stderr, "Password or token: ")

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", "", err
	}

	return username, string(secret), nil
}
