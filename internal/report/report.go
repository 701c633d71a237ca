// Writes aggregated totals as text, CSV, or a spreadsheet.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linesum/git-linesum/internal/format"
	"github.com/linesum/git-linesum/internal/pretty"
	"github.com/linesum/git-linesum/internal/tally"
)

type Format string

const (
	TextFormat Format = "text"
	CSVFormat  Format = "csv"
	XLSXFormat Format = "xlsx"
)

const title = "====== Total Lines Changed per User ======"

const maxRepoWidth = 40

type TextOpts struct {
	ByRepo bool // Append a per-repository breakdown
	Pretty bool // Group digits and color counts
}

func (opts TextOpts) number(n int) string {
	if opts.Pretty {
		return pretty.Green() + format.Number(n) + pretty.Reset()
	}

	return strconv.Itoa(n)
}

func WriteText(w io.Writer, totals *tally.Totals, opts TextOpts) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, title)
	for _, t := range totals.Rank() {
		fmt.Fprintf(bw, "%s: %s lines changed\n", t.Author, opts.number(t.Lines))
	}
	fmt.Fprintln(bw, strings.Repeat("=", len(title)))
	fmt.Fprintf(
		bw,
		"Grand total across all repos: %s lines changed\n",
		opts.number(totals.GrandTotal()),
	)

	if opts.ByRepo {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "%sPer repository:%s\n", pretty.Dim(), pretty.Reset())
		for _, r := range totals.Repos() {
			fmt.Fprintf(
				bw,
				"  %s: %s lines changed by %d authors\n",
				format.Abbrev(r.Repo, maxRepoWidth),
				opts.number(r.Lines),
				r.Authors,
			)
		}
	}

	failed := totals.Failed()
	if len(failed) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "%sSkipped %d repos:%s\n", pretty.Red(), len(failed), pretty.Reset())
		for _, f := range failed {
			fmt.Fprintf(bw, "  %s: %v\n", f.Repo, f.Err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	return nil
}

func WriteCSV(w io.Writer, totals *tally.Totals) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"author", "lines changed"}}
	for _, t := range totals.Rank() {
		records = append(records, []string{t.Author, strconv.Itoa(t.Lines)})
	}
	records = append(records, []string{"TOTAL", strconv.Itoa(totals.GrandTotal())})

	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return nil
}
