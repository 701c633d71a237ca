/*
* Wraps the external git-quick-stats tool.
*
* The tool is invoked as a subprocess inside each repository checkout and its
* human-readable report is parsed; there is no machine-readable output mode
* that carries the per-author line totals.
 */
package quickstats

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/linesum/git-linesum/internal/subprocess"
)

const (
	DefaultCommand = "git-quick-stats"
	DefaultFlag    = "-T" // Detailed git stats, segmented by author
)

var ErrToolMissing = errors.New("stats tool not available")

type Runner struct {
	Command string
	Flag    string
}

func NewRunner(command string, flag string) Runner {
	if command == "" {
		command = DefaultCommand
	}
	if flag == "" {
		flag = DefaultFlag
	}

	return Runner{Command: command, Flag: flag}
}

// Checks once that the tool is installed and runnable.
func (r Runner) Probe(ctx context.Context) error {
	path, err := exec.LookPath(r.Command)
	if err != nil {
		return fmt.Errorf(
			"%w: %s must be installed and on your PATH",
			ErrToolMissing,
			r.Command,
		)
	}

	_, err = subprocess.Output(ctx, "", path, "-h")
	if err != nil {
		return fmt.Errorf(
			"%w: %s must be installed and on your PATH: %w",
			ErrToolMissing,
			r.Command,
			err,
		)
	}

	logger().Debug("found stats tool", "path", path)
	return nil
}

// Runs the report inside dir and returns its text output.
func (r Runner) Run(ctx context.Context, dir string) (string, error) {
	text, err := subprocess.Output(ctx, dir, r.Command, r.Flag)
	if err != nil {
		return "", fmt.Errorf(
			"failed to run %s %s in %s: %w",
			r.Command,
			r.Flag,
			dir,
			err,
		)
	}

	return text, nil
}

// Like Run, but hands back the running subprocess so callers can stream the
// output.
func (r Runner) Start(
	ctx context.Context,
	dir string,
) (*subprocess.Subprocess, error) {
	s, err := subprocess.Start(ctx, dir, r.Command, r.Flag)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s %s: %w", r.Command, r.Flag, err)
	}

	return s, nil
}
