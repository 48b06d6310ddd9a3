package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
)

// Sync clones the deck repository at url into localPath, or pulls the
// latest changes if a clone is already there.
func Sync(ctx context.Context, url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return clone(ctx, url, localPath)
	case err != nil:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}
	return pull(ctx, localPath)
}

func clone(ctx context.Context, url, localPath string) error {
	slog.Info("Cloning deck repository", "url", url, "path", localPath)
	_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repo %s: %w", url, err)
	}
	return nil
}

func pull(ctx context.Context, localPath string) error {
	slog.Info("Pulling deck repository", "path", localPath)
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: git.DefaultRemoteName})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
	}
	return nil
}
