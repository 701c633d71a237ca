package git

import (
	"context"
	"fmt"

	"github.com/linesum/git-linesum/internal/subprocess"
)

// Runs git clone
func RunClone(ctx context.Context, url string, dest string) error {
	args := []string{"clone", "--quiet", url, dest}

	_, err := subprocess.Output(ctx, "", "git", args...)
	if err != nil {
		return fmt.Errorf("failed to run git clone: %w", err)
	}

	return nil
}

// Runs git fetch inside an existing checkout
func RunFetch(ctx context.Context, dir string) error {
	args := []string{"-C", dir, "fetch", "--quiet"}

	_, err := subprocess.Output(ctx, "", "git", args...)
	if err != nil {
		return fmt.Errorf("failed to run git fetch: %w", err)
	}

	return nil
}
