/*
* Materializes local checkouts of remote repositories.
*
* By default we invoke Git directly as a subprocess. The go-git backend does
* the same work in-process for environments without a git binary.
 */
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Backend string

const (
	CLIBackend   Backend = "cli"
	GoGitBackend Backend = "go-git"
)

// Clones or updates a repository under a base directory.
type Materializer interface {
	Materialize(ctx context.Context, url string, baseDir string) (string, error)
}

func NewMaterializer(backend Backend) (Materializer, error) {
	switch backend {
	case CLIBackend, "":
		return CLIMaterializer{}, nil
	case GoGitBackend:
		return GoGitMaterializer{}, nil
	default:
		return nil, fmt.Errorf("unknown git backend \"%s\"", backend)
	}
}

// Returns the local directory name for a repository URL: the last path
// segment once trailing slashes are stripped.
//
// A ".git" suffix is kept, so "https://host/org/name.git/" gives "name.git".
func RepoName(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}

// Where RepoName(url) will live under baseDir.
func CheckoutPath(url string, baseDir string) string {
	return filepath.Join(baseDir, RepoName(url))
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, err
}

// Uses the git binary on PATH.
type CLIMaterializer struct{}

func (CLIMaterializer) Materialize(
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
		logger().Info("fetching updates", "repo", name)
		err = RunFetch(ctx, dest)
	} else {
		logger().Info("cloning", "repo", name)
		err = RunClone(ctx, url, dest)
	}
	if err != nil {
		return "", err
	}

	return dest, nil
}
