// Helpers for tests that need a real Git repository to clone from.
package repotest

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// Skips the test when there is no git binary on PATH.
func RequireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// Creates a throwaway repository named name with one empty commit and
// returns its path, usable as a clone URL.
func Upstream(t *testing.T, name string) string {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), name)
	Git(t, "init", "--quiet", dir)
	Commit(t, dir, "init")

	return dir
}

// Adds an empty commit to the repository at dir.
func Commit(t *testing.T, dir string, msg string) {
	t.Helper()

	Git(
		t,
		"-C", dir,
		"-c", "user.name=Test",
		"-c", "user.email=test@example.com",
		"commit", "--quiet", "--allow-empty", "-m", msg,
	)
}

func Git(t *testing.T, args ...string) string {
	t.Helper()

	out, err := exec.Command("git", args...).CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}

	return string(out)
}
