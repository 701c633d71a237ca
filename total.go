package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/linesum/git-linesum/internal/config"
	"github.com/linesum/git-linesum/internal/git"
	"github.com/linesum/git-linesum/internal/linesum"
	"github.com/linesum/git-linesum/internal/pretty"
	"github.com/linesum/git-linesum/internal/quickstats"
	"github.com/linesum/git-linesum/internal/report"
)

// The "total" subcommand clones every configured repository, runs the stats
// tool in each, and prints lines changed per author summed across all of them.
func total(ctx context.Context, cfg config.Config) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"total\": %w", err)
		}
	}()

	logger().Debug(
		"called total()",
		"repos",
		cfg.Repos,
		"backend",
		cfg.Backend,
		"keepGoing",
		cfg.KeepGoing,
		"format",
		cfg.Format,
		"out",
		cfg.Out,
		"workDir",
		cfg.WorkDir,
	)

	runner := quickstats.NewRunner(cfg.StatsCmd, cfg.StatsFlag)
	err = runner.Probe(ctx)
	if err != nil {
		return err
	}

	materializer, err := git.NewMaterializer(git.Backend(cfg.Backend))
	if err != nil {
		return err
	}

	opts := linesum.Options{
		Repos:     cfg.Repos,
		KeepGoing: cfg.KeepGoing,
		WorkDir:   cfg.WorkDir,
	}
	totals, err := linesum.Run(ctx, opts, materializer, runner)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if cfg.Out != "" {
		f, createErr := os.Create(cfg.Out)
		if createErr != nil {
			return fmt.Errorf("could not create output file: %w", createErr)
		}

		defer func() {
			closeErr := f.Close()
			if err == nil && closeErr != nil {
				err = fmt.Errorf("could not close output file: %w", closeErr)
			}
		}()

		w = f
	}

	switch report.Format(cfg.Format) {
	case report.CSVFormat:
		err = report.WriteCSV(w, totals)
	case report.XLSXFormat:
		err = report.WriteXLSX(w, totals)
	default:
		pretty.SetColorEnabled(
			cfg.Pretty && cfg.Out == "" && pretty.AllowDynamic(os.Stdout),
		)
		err = report.WriteText(w, totals, report.TextOpts{
			ByRepo: cfg.ByRepo,
			Pretty: cfg.Pretty,
		})
	}
	if err != nil {
		return err
	}

	if cfg.Out != "" {
		logger().Info("wrote report", "path", cfg.Out, "format", cfg.Format)
	}

	elapsed := time.Now().Sub(progStart)
	logger().Debug("finished total", "duration_ms", elapsed.Milliseconds())

	return nil
}
