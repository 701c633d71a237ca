/*
* Handles invoking external commands (git, git-quick-stats) as subprocesses.
 */
package subprocess

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"
)

type ExitErr struct {
	Name     string
	ExitCode int
	Stderr   string
	Err      error
}

func (err ExitErr) Error() string {
	if err.Stderr != "" {
		return fmt.Sprintf(
			"%s exited with code %d. Error output:\n%s",
			err.Name,
			err.ExitCode,
			err.Stderr,
		)
	}

	return fmt.Sprintf("%s exited with code %d", err.Name, err.ExitCode)
}

func (err ExitErr) Unwrap() error {
	return err.Err
}

type Subprocess struct {
	name   string
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
}

// Reads all of stdout. Unlike lines, surrounding whitespace is preserved
// since report parsers care about indentation.
func (s Subprocess) StdoutText() (string, error) {
	b, err := io.ReadAll(s.stdout)
	if err != nil {
		return "", fmt.Errorf("could not read stdout: %w", err)
	}

	return string(b), nil
}

// Returns a single-use iterator over the output of the command, line by line.
func (s Subprocess) StdoutLines() (iter.Seq[string], func() error) {
	var iterErr error

	seq := func(yield func(string) bool) {
		scanner := bufio.NewScanner(s.stdout)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}

		iterErr = scanner.Err()
	}

	finish := func() error {
		if iterErr != nil {
			iterErr = fmt.Errorf("error while scanning: %w", iterErr)
		}

		return iterErr
	}

	return seq, finish
}

func (s Subprocess) Wait() error {
	logger().Debug("waiting for subprocess...", "name", s.name)

	err := s.cmd.Wait()
	logger().Debug(
		"subprocess exited",
		"name",
		s.name,
		"code",
		s.cmd.ProcessState.ExitCode(),
	)

	if err != nil {
		return ExitErr{
			Name:     s.name,
			ExitCode: s.cmd.ProcessState.ExitCode(),
			Stderr:   strings.TrimSpace(s.stderr.String()),
			Err:      err,
		}
	}

	return nil
}

// Starts the named command with the given working directory. An empty dir
// means the current working directory.
func Start(
	ctx context.Context,
	dir string,
	name string,
	args ...string,
) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	logger().Debug("running subprocess", "cmd", cmd, "dir", dir)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	// Buffered rather than piped so a chatty stderr can't block the child
	// while we are still draining stdout.
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start subprocess: %w", err)
	}

	return &Subprocess{
		name:   name,
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
	}, nil
}

// Runs the command to completion and returns everything it wrote to stdout.
func Output(
	ctx context.Context,
	dir string,
	name string,
	args ...string,
) (string, error) {
	s, err := Start(ctx, dir, name, args...)
	if err != nil {
		return "", err
	}

	text, readErr := s.StdoutText()

	// Always reap the child, even if reading failed.
	err = s.Wait()
	if err != nil {
		return "", err
	}

	if readErr != nil {
		return "", readErr
	}

	return text, nil
}
