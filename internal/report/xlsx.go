package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/linesum/git-linesum/internal/tally"
)

const (
	TotalsSheet = "Totals"
	ReposSheet  = "Repositories"
)

// Writes a workbook with the ranked totals on one sheet and the
// per-repository breakdown on another.
func WriteXLSX(w io.Writer, totals *tally.Totals) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error writing spreadsheet: %w", err)
		}
	}()

	f := excelize.NewFile()
	defer f.Close()

	err = f.SetSheetName("Sheet1", TotalsSheet)
	if err != nil {
		return err
	}

	rows := [][]any{{"Author", "Lines changed"}}
	for _, t := range totals.Rank() {
		rows = append(rows, []any{t.Author, t.Lines})
	}
	rows = append(rows, []any{"Grand total", totals.GrandTotal()})

	err = writeRows(f, TotalsSheet, rows)
	if err != nil {
		return err
	}

	_, err = f.NewSheet(ReposSheet)
	if err != nil {
		return err
	}

	rows = [][]any{{"Repository", "Authors", "Lines changed"}}
	for _, r := range totals.Repos() {
		rows = append(rows, []any{r.Repo, r.Authors, r.Lines})
	}
	for _, failed := range totals.Failed() {
		rows = append(rows, []any{failed.Repo, "failed", failed.Err.Error()})
	}

	err = writeRows(f, ReposSheet, rows)
	if err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		err = f.SetSheetRow(sheet, cell, &row)
		if err != nil {
			return fmt.Errorf("could not write row %d of %s: %w", i+1, sheet, err)
		}
	}

	return nil
}
