package git

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/thomas-vilte/releasemate/internal/errors"
)

var (
	sshRemote   = regexp.MustCompile(`^(?:ssh://)?[^@]+@([^:/]+)[:/](?:\d+/)?(.+?)(?:\.git)?/?$`)
	httpsRemote = regexp.MustCompile(`^https?://(?:[^@/]+@)?([^/]+)/(.+?)(?:\.git)?/?$`)
)

// GitService reads repository metadata from the local clone. Releases never touch the working
// tree; this is only used to fill in configuration.
type GitService struct {
	dir string
}

func NewGitService(dir string) *GitService {
	return &GitService{dir: dir}
}

// GetRepoInfo returns the repository path (owner/name, subgroups included) and the provider of
// the origin remote.
func (s *GitService) GetRepoInfo(ctx context.Context) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = s.dir
	output, err := cmd.Output()
	if err != nil {
		return "", "", errors.ErrRemoteNotDetected.WithError(err)
	}
	return parseRepoURL(strings.TrimSpace(string(output)))
}

func parseRepoURL(url string) (string, string, error) {
	var matches []string
	if m := httpsRemote.FindStringSubmatch(url); m != nil {
		matches = m
	} else if m := sshRemote.FindStringSubmatch(url); m != nil {
		matches = m
	}

	if len(matches) == 3 && strings.Contains(matches[2], "/") {
		return matches[2], detectProvider(matches[1]), nil
	}
	return "", "", errors.ErrRemoteNotDetected.WithContext("url", url)
}

// detectProvider guesses from the host name. Self-managed hosts without a hint default to GitHub.
func detectProvider(host string) string {
	if strings.Contains(host, "gitlab") {
		return "gitlab"
	}
	return "github"
}
