// Runs the aggregate: materialize each repository, run the stats tool in it,
// parse the report, and add it to the running totals.
package linesum

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/linesum/git-linesum/internal/git"
	"github.com/linesum/git-linesum/internal/quickstats"
	"github.com/linesum/git-linesum/internal/tally"
)

// Produces a local checkout of url under baseDir and returns its path.
type Materializer interface {
	Materialize(ctx context.Context, url string, baseDir string) (string, error)
}

// Runs the stats report in a checkout and returns the captured text.
type StatsRunner interface {
	Run(ctx context.Context, dir string) (string, error)
}

type Options struct {
	Repos []string

	// Skip repositories that fail instead of aborting the whole run.
	KeepGoing bool

	// Persistent directory for checkouts. When empty, checkouts go in a
	// temporary directory that is removed when the run ends.
	WorkDir string
}

// Processes each repository in order, one at a time.
//
// Without KeepGoing, the first failure aborts the run and no totals are
// returned.
func Run(
	ctx context.Context,
	opts Options,
	materializer Materializer,
	runner StatsRunner,
) (_ *tally.Totals, err error) {
	runID := uuid.New()
	log := logger().With("run", runID.String())
	start := time.Now()

	baseDir := opts.WorkDir
	if baseDir == "" {
		baseDir, err = os.MkdirTemp("", "git-linesum-"+runID.String()[:8]+"-")
		if err != nil {
			return nil, fmt.Errorf("could not create checkout dir: %w", err)
		}

		defer func() {
			rmErr := os.RemoveAll(baseDir)
			if rmErr != nil {
				log.Warn("failed to remove checkout dir", "dir", baseDir, "err", rmErr)
				err = errors.Join(err, rmErr)
			} else {
				log.Debug("removed checkout dir", "dir", baseDir)
			}
		}()
	} else {
		err = os.MkdirAll(baseDir, 0o755)
		if err != nil {
			return nil, fmt.Errorf("could not create checkout dir: %w", err)
		}
	}

	log.Debug("starting run", "repos", len(opts.Repos), "dir", baseDir)

	totals := tally.NewTotals()
	for _, url := range opts.Repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, err := collect(ctx, url, baseDir, materializer, runner)
		if err != nil {
			if !opts.KeepGoing || ctx.Err() != nil {
				return nil, err
			}

			log.Warn("skipping repository", "repo", url, "err", err)
			totals.Fail(url, err)
			continue
		}

		totals.Add(git.RepoName(url), report)
	}

	elapsed := time.Now().Sub(start)
	log.Debug(
		"finished run",
		"duration_ms",
		elapsed.Milliseconds(),
		"authors",
		len(totals.Counts()),
		"grand_total",
		totals.GrandTotal(),
	)

	return totals, nil
}

func collect(
	ctx context.Context,
	url string,
	baseDir string,
	materializer Materializer,
	runner StatsRunner,
) (quickstats.Report, error) {
	path, err := materializer.Materialize(ctx, url, baseDir)
	if err != nil {
		return quickstats.Report{}, err
	}

	logger().Info("generating stats", "repo", git.RepoName(url))
	text, err := runner.Run(ctx, path)
	if err != nil {
		return quickstats.Report{}, err
	}

	report := quickstats.ParseReport(text)
	if len(report.Authors) == 0 {
		logger().Warn("no author stats found in report", "repo", git.RepoName(url))
	}

	return report, nil
}
