package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/linesum/git-linesum/internal/quickstats"
)

// Just prints out the output of the stats tool as git-linesum sees it.
func dump(
	ctx context.Context,
	dir string,
	statsCmd string,
	statsFlag string,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"dump\": %w", err)
		}
	}()

	logger().Debug(
		"called dump()",
		"dir",
		dir,
		"statsCmd",
		statsCmd,
		"statsFlag",
		statsFlag,
	)

	start := time.Now()

	runner := quickstats.NewRunner(statsCmd, statsFlag)
	err = runner.Probe(ctx)
	if err != nil {
		return err
	}

	subprocess, err := runner.Start(ctx, dir)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)

	lines, finish := subprocess.StdoutLines()
	for line := range lines {
		fmt.Fprintln(w, line)
	}

	err = w.Flush()
	if err != nil {
		return err
	}

	err = finish()
	if err != nil {
		return err
	}

	err = subprocess.Wait()
	if err != nil {
		return err
	}

	elapsed := time.Now().Sub(start)
	logger().Debug("finished dump", "duration_ms", elapsed.Milliseconds())

	return nil
}
