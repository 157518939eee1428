package core

import (
	"os"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/inovacc/forkr/internal/application"
	"github.com/inovacc/forkr/internal/config"
)

// TokenSource indicates where the token was found
type TokenSource string

const (
	TokenSourceFlag      TokenSource = "flag"
	TokenSourceEnvForkr  TokenSource = application.EnvToken
	TokenSourceEnvGitHub TokenSource = "GITHUB_TOKEN"
	TokenSourceEnvGH     TokenSource = "GH_TOKEN"
	TokenSourceConfig    TokenSource = "config file"
	TokenSourceKeyring   TokenSource = "keyring"
	TokenSourceGHCLI     TokenSource = "gh-cli"
	TokenSourceNone      TokenSource = "none"
)

// ResolveTokenForHost attempts to find a GitHub token for the host from
// multiple sources. Priority order:
//  1. flagToken (explicit --token flag)
//  2. FORKR_TOKEN environment variable
//  3. GITHUB_TOKEN environment variable
//  4. GH_TOKEN environment variable
//  5. Config file [github] token
//  6. System keyring (forkr auth login)
//  7. gh CLI auth (config file)
//
// An empty result is not an error. Every command works anonymously,
// GitHub just caps unauthenticated clients at 60 requests per hour.
func ResolveTokenForHost(flagToken, host string, cfg *config.Config) (token string, source TokenSource) {
	// 1. Flag has highest priority
	if flagToken != "" {
		return flagToken, TokenSourceFlag
	}

	// 2-4. Environment, forkr's own variable first
	envSources := []struct {
		name   string
		source TokenSource
	}{
		{application.EnvToken, TokenSourceEnvForkr},
		{"GITHUB_TOKEN", TokenSourceEnvGitHub},
		{"GH_TOKEN", TokenSourceEnvGH},
	}

	for _, env := range envSources {
		if token = strings.TrimSpace(os.Getenv(env.name)); token != "" {
			return token, env.source
		}
	}

	// 5. Config file
	if cfg != nil && cfg.GitHub.Token != "" {
		return cfg.GitHub.Token, TokenSourceConfig
	}

	// 6. System keyring, populated by forkr auth login
	if token, err := LoginToken(host); err == nil && token != "" {
		return token, TokenSourceKeyring
	}

	// 7. Try gh CLI auth (keyring + config file)
	if token, _ = auth.TokenForHost(host); token != "" {
		return token, TokenSourceGHCLI
	}

	return "", TokenSourceNone
}

// MissingTokenGuidance explains how to provide a token, shown when a
// command runs anonymously or auth status finds nothing.
func MissingTokenGuidance() string {
	return `no GitHub token found

Provide one via any of:
  * forkr auth login          (device flow, stored in the system keyring)
  * gh auth login             (auto-detected from gh CLI)
  * ` + application.EnvToken + ` or GITHUB_TOKEN env var
  * --token flag

Create a token at: https://github.com/settings/tokens`
}
