package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// Clones and fetches in-process with go-git. SSH URLs authenticate through
// the running ssh-agent.
type GoGitMaterializer struct{}

func (GoGitMaterializer) Materialize(
	ctx context.Context,
	url string,
	baseDir string,
) (_ string, err error) {
	name := RepoName(url)
	dest := CheckoutPath(url, baseDir)

	defer func() {
		if err != nil {
			err = fmt.Errorf("error materializing %s: %w", name, err)
		}
	}()

	found, err := exists(dest)
	if err != nil {
		return "", err
	}

	if found {
		logger().Info("fetching updates", "repo", name, "backend", GoGitBackend)

		repo, err := gogit.PlainOpen(dest)
		if err != nil {
			return "", fmt.Errorf("could not open %s: %w", dest, err)
		}

		err = repo.FetchContext(ctx, &gogit.FetchOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
			return "", fmt.Errorf("fetch failed: %w", err)
		}
	} else {
		logger().Info("cloning", "repo", name, "backend", GoGitBackend)

		_, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
			URL: url,
		})
		if err != nil {
			return "", fmt.Errorf("clone failed: %w", err)
		}
	}

	return dest, nil
}
