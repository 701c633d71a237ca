package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/linesum/git-linesum/internal/quickstats"
)

// Just prints out the per-author counts parsed from a saved git-quick-stats
// report, for debugging.
func parse(path string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"parse\": %w", err)
		}
	}()

	logger().Debug("called parse()", "path", path)

	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		r = f
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read report: %w", err)
	}

	rep := quickstats.ParseReport(string(text))

	w := bufio.NewWriter(os.Stdout)
	for _, a := range rep.Authors {
		fmt.Fprintf(w, "%s: %d\n", a.Author, a.Lines)
	}
	fmt.Fprintf(w, "(%d authors, %d lines changed)\n", len(rep.Authors), rep.Total())

	return w.Flush()
}
