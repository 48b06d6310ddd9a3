package gitsource

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// LocalPath maps a repository URL to a directory under baseDir, e.g.
// https://github.com/a/decks.git and git@github.com:a/decks.git both map to
// baseDir/github.com/a/decks.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http" || parsed.Scheme == "ssh") {
		repoPath := strings.TrimSuffix(strings.Trim(parsed.Path, "/"), ".git")
		if parsed.Host == "" || repoPath == "" {
			return "", fmt.Errorf("could not parse git URL: %s", repoURL)
		}
		return filepath.Join(baseDir, parsed.Hostname(), filepath.FromSlash(repoPath)), nil
	}

	// scp-like syntax: user@host:path/repo.git
	userHost, repoPath, ok := strings.Cut(repoURL, ":")
	if !ok || !strings.Contains(userHost, "@") {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	host := userHost[strings.LastIndex(userHost, "@")+1:]
	repoPath = strings.TrimSuffix(strings.Trim(repoPath, "/"), ".git")
	if host == "" || repoPath == "" {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	return filepath.Join(baseDir, host, filepath.FromSlash(repoPath)), nil
}

// IsRemote reports whether path names a git remote rather than a local
// directory.
func IsRemote(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "ssh://")
}
