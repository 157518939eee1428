package giturl

import (
	"fmt"
	"strings"
)

const defaultHost = "github.com"

// Repository identifies a hosted repository by owner, name, and host
type Repository struct {
	Owner string
	Name  string
	Host  string
}

// FullName returns the "owner/repo" string
func (r *Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// URL returns the canonical web URL for the repository
func (r *Repository) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.Host, r.Owner, r.Name)
}

// IsGitHub reports whether the repository lives on github.com
func (r *Repository) IsGitHub() bool {
	return r.Host == defaultHost
}

// ParseRepository parses a repository reference into a Repository struct.
// Supports multiple formats:
//   - "owner/repo"
//   - "host/owner/repo"
//   - "https://github.com/owner/repo"
//   - "https://github.com/owner/repo/network/members"
//   - "git@github.com:owner/repo.git"
//   - "ssh://git@github.com/owner/repo.git"
func ParseRepository(arg string) (*Repository, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("repository reference is empty")
	}

	// Check if it's a URL (contains ":" but not a Windows path)
	isURL := strings.Contains(arg, ":") && !strings.Contains(arg, "\\")

	if isURL {
		return parseRepositoryFromURL(arg)
	}

	if strings.Contains(arg, "/") {
		return parseRepositoryFromFullName(arg)
	}

	return nil, fmt.Errorf("invalid repository reference %q: expected owner/repo or a repository URL", arg)
}

func parseRepositoryFromURL(rawURL string) (*Repository, error) {
	u, err := Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	// Strip deep-link segments so fork pages, file views, etc. all resolve
	// to the repository itself
	u = Simplify(u)

	owner, name, err := ExtractOwnerRepo(u)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", rawURL, err)
	}

	host := u.Hostname()
	if host == "" {
		host = defaultHost
	}

	return &Repository{
		Owner: owner,
		Name:  name,
		Host:  strings.ToLower(strings.TrimPrefix(host, "www.")),
	}, nil
}

func parseRepositoryFromFullName(fullName string) (*Repository, error) {
	// Handle HOST/OWNER/REPO format
	parts := strings.Split(fullName, "/")
	switch len(parts) {
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid repository format %q: owner and repo cannot be empty", fullName)
		}

		return &Repository{
			Owner: parts[0],
			Name:  strings.TrimSuffix(parts[1], ".git"),
			Host:  defaultHost,
		}, nil
	case 3:
		return &Repository{
			Owner: parts[1],
			Name:  strings.TrimSuffix(parts[2], ".git"),
			Host:  strings.ToLower(strings.TrimPrefix(parts[0], "www.")),
		}, nil
	default:
		return nil, fmt.Errorf("invalid repository format %q: expected owner/repo or host/owner/repo", fullName)
	}
}
