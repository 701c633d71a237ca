package quickstats_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/linesum/git-linesum/internal/quickstats"
)

// Writes an executable shell script standing in for git-quick-stats.
func fakeTool(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	path := filepath.Join(t.TempDir(), "fake-quick-stats")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)

	return path
}

func TestNewRunnerDefaults(t *testing.T) {
	r := quickstats.NewRunner("", "")
	if r.Command != "git-quick-stats" || r.Flag != "-T" {
		t.Errorf("unexpected defaults: %+v", r)
	}
}

func TestProbeMissingTool(t *testing.T) {
	r := quickstats.NewRunner("no-such-stats-tool-linesum", "")

	err := r.Probe(context.Background())
	require.ErrorIs(t, err, quickstats.ErrToolMissing)
	require.ErrorContains(t, err, "must be installed and on your PATH")
}

func TestProbeFailingTool(t *testing.T) {
	path := fakeTool(t, "exit 2\n")
	r := quickstats.NewRunner(path, "")

	err := r.Probe(context.Background())
	require.ErrorIs(t, err, quickstats.ErrToolMissing)
}

func TestProbe(t *testing.T) {
	path := fakeTool(t, "echo usage\n")
	r := quickstats.NewRunner(path, "")

	require.NoError(t, r.Probe(context.Background()))
}

func TestRunInRepoDir(t *testing.T) {
	path := fakeTool(t, `
if [ "$1" != "-T" ]; then
	echo "unexpected flag $1" >&2
	exit 1
fi
echo "Contribution stats By Author"
echo "$(basename "$(pwd)") <repo@example.com>:"
echo "  lines changed: 7"
`)
	r := quickstats.NewRunner(path, "-T")

	dir := filepath.Join(t.TempDir(), "widgets.git")
	require.NoError(t, os.Mkdir(dir, 0o755))

	text, err := r.Run(context.Background(), dir)
	require.NoError(t, err)

	report := quickstats.ParseReport(text)
	expected := []quickstats.AuthorLines{{Author: "widgets.git", Lines: 7}}
	if diff := cmp.Diff(expected, report.Authors); diff != "" {
		t.Errorf("report is wrong:\n%s", diff)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	path := fakeTool(t, "echo 'not a git repository' >&2\nexit 1\n")
	r := quickstats.NewRunner(path, "")

	_, err := r.Run(context.Background(), t.TempDir())
	require.ErrorContains(t, err, "not a git repository")
}
