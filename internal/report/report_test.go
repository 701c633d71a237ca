package report_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/linesum/git-linesum/internal/quickstats"
	"github.com/linesum/git-linesum/internal/report"
	"github.com/linesum/git-linesum/internal/tally"
)

func sampleTotals() *tally.Totals {
	totals := tally.NewTotals()
	totals.Add("one.git", quickstats.Report{Authors: []quickstats.AuthorLines{
		{Author: "Alice", Lines: 15},
		{Author: "Bob", Lines: 3},
	}})
	totals.Add("two.git", quickstats.Report{Authors: []quickstats.AuthorLines{
		{Author: "Carol", Lines: 1500},
		{Author: "Alice", Lines: 1485},
	}})
	return totals
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteText(&buf, sampleTotals(), report.TextOpts{})
	require.NoError(t, err)

	expected := `
====== Total Lines Changed per User ======
Alice: 1500 lines changed
Carol: 1500 lines changed
Bob: 3 lines changed
==========================================
Grand total across all repos: 3003 lines changed
`
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("text report is wrong:\n%s", diff)
	}
}

func TestWriteTextPrettyByRepo(t *testing.T) {
	totals := sampleTotals()
	totals.Fail("bad.git", errors.New("clone failed"))

	var buf bytes.Buffer
	err := report.WriteText(&buf, totals, report.TextOpts{ByRepo: true, Pretty: true})
	require.NoError(t, err)

	expected := `
====== Total Lines Changed per User ======
Alice: 1,500 lines changed
Carol: 1,500 lines changed
Bob: 3 lines changed
==========================================
Grand total across all repos: 3,003 lines changed

Per repository:
  one.git: 18 lines changed by 2 authors
  two.git: 2,985 lines changed by 2 authors

Skipped 1 repos:
  bad.git: clone failed
`
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("text report is wrong:\n%s", diff)
	}
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteText(&buf, tally.NewTotals(), report.TextOpts{})
	require.NoError(t, err)

	expected := `
====== Total Lines Changed per User ======
==========================================
Grand total across all repos: 0 lines changed
`
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("text report is wrong:\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteCSV(&buf, sampleTotals())
	require.NoError(t, err)

	expected := "author,lines changed\n" +
		"Alice,1500\n" +
		"Carol,1500\n" +
		"Bob,3\n" +
		"TOTAL,3003\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("csv report is wrong:\n%s", diff)
	}
}

func TestWriteXLSX(t *testing.T) {
	totals := sampleTotals()
	totals.Fail("bad.git", errors.New("clone failed"))

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, totals))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.TotalsSheet)
	require.NoError(t, err)

	expected := [][]string{
		{"Author", "Lines changed"},
		{"Alice", "1500"},
		{"Carol", "1500"},
		{"Bob", "3"},
		{"Grand total", "3003"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("totals sheet is wrong:\n%s", diff)
	}

	rows, err = f.GetRows(report.ReposSheet)
	require.NoError(t, err)

	expected = [][]string{
		{"Repository", "Authors", "Lines changed"},
		{"one.git", "2", "18"},
		{"two.git", "2", "2985"},
		{"bad.git", "failed", "clone failed"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("repositories sheet is wrong:\n%s", diff)
	}
}

func TestWriteTextByRepoTruncatesLongNames(t *testing.T) {
	totals := tally.NewTotals()
	totals.Add(
		"an-extremely-long-repository-name-for-widgets.git",
		quickstats.Report{Authors: []quickstats.AuthorLines{
			{Author: "Alice", Lines: 2},
		}},
	)

	var buf bytes.Buffer
	err := report.WriteText(&buf, totals, report.TextOpts{ByRepo: true})
	require.NoError(t, err)

	require.Contains(
		t,
		buf.String(),
		"  an-extremely-long-repository-name-for-w…: 2 lines changed by 1 authors\n",
	)
}
