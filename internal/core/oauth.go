package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cli/oauth"
)

// defaultOAuthClientID is the OAuth app registered for forkr
const defaultOAuthClientID = "Ov23liTFkrQc9hW2mKnd"

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Host     string
	Scopes   []string
	ClientID string
}

// OAuthResult contains the result of an OAuth flow
type OAuthResult struct {
	Token    string
	Username string
	Scopes   []string
}

// OAuthFlow handles the OAuth device flow
type OAuthFlow struct {
	config       OAuthConfig
	onDeviceCode func(code, verificationURL string)
}

// NewOAuthFlow creates a new OAuth flow against the given host
func NewOAuthFlow(host string, scopes []string) *OAuthFlow {
	return &OAuthFlow{
		config: OAuthConfig{
			Host:     host,
			Scopes:   scopes,
			ClientID: defaultOAuthClientID,
		},
	}
}

// OnDeviceCode sets the callback for when a device code is received
func (f *OAuthFlow) OnDeviceCode(callback func(code, verificationURL string)) {
	f.onDeviceCode = callback
}

// Run executes the OAuth device flow and returns the result
func (f *OAuthFlow) Run(ctx context.Context) (*OAuthResult, error) {
	host, err := oauth.NewGitHubHost("https://" + f.getGitHubHost())
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub host: %w", err)
	}

	flow := &oauth.Flow{
		Host:     host,
		ClientID: f.config.ClientID,
		Scopes:   f.config.Scopes,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if f.onDeviceCode != nil {
		flow.DisplayCode = func(code, verificationURL string) error {
			f.onDeviceCode(code, verificationURL)

			return nil
		}
	}

	accessToken, err := flow.DetectFlow()
	if err != nil {
		return nil, fmt.Errorf("OAuth flow failed: %w", err)
	}

	username, err := f.getUsername(ctx, accessToken.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to get username: %w", err)
	}

	return &OAuthResult{
		Token:    accessToken.Token,
		Username: username,
		Scopes:   f.config.Scopes,
	}, nil
}

// getGitHubHost returns the host string for oauth
func (f *OAuthFlow) getGitHubHost() string {
	if f.config.Host == "" {
		return "github.com"
	}

	return f.config.Host
}

// getUsername fetches the authenticated user's username
func (f *OAuthFlow) getUsername(ctx context.Context, token string) (string, error) {
	client, err := newAPIClient(nil, f.config.Host)
	if err != nil {
		return "", err
	}

	user, _, err := client.WithAuthToken(token).Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	return user.GetLogin(), nil
}

// ValidateToken checks if a token is still valid by making an API call
func ValidateToken(ctx context.Context, token, host string) (bool, string, error) {
	client, err := newAPIClient(nil, host)
	if err != nil {
		return false, "", err
	}

	user, resp, err := client.WithAuthToken(token).Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return false, "", nil
		}

		return false, "", fmt.Errorf("token validation failed: %w", err)
	}

	return true, user.GetLogin(), nil
}
