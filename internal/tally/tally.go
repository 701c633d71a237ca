// Handles summations of per-author line counts across repositories.
package tally

import (
	"slices"

	"github.com/linesum/git-linesum/internal/quickstats"
)

type AuthorTotal struct {
	Author string
	Lines  int // Lines changed, summed across all repositories
}

// Descending by lines changed. Equal counts compare as equal so that a stable
// sort keeps first-seen order.
func (a AuthorTotal) Compare(b AuthorTotal) int {
	if a.Lines > b.Lines {
		return -1
	} else if a.Lines < b.Lines {
		return 1
	}

	return 0
}

// What a single repository contributed to the totals.
type RepoTotal struct {
	Repo    string
	Authors int
	Lines   int
}

type RepoFailure struct {
	Repo string
	Err  error
}

// Running totals for one aggregate run.
type Totals struct {
	counts map[string]int
	order  []string // Authors in the order first seen
	grand  int
	repos  []RepoTotal
	failed []RepoFailure
}

func NewTotals() *Totals {
	return &Totals{counts: map[string]int{}}
}

// Adds one repository's report. Authors are matched by exact name.
func (t *Totals) Add(repo string, report quickstats.Report) {
	if t.counts == nil {
		t.counts = map[string]int{}
	}

	repoTotal := RepoTotal{Repo: repo, Authors: len(report.Authors)}

	for _, a := range report.Authors {
		if _, ok := t.counts[a.Author]; !ok {
			t.order = append(t.order, a.Author)
		}

		t.counts[a.Author] += a.Lines
		t.grand += a.Lines
		repoTotal.Lines += a.Lines
	}

	t.repos = append(t.repos, repoTotal)

	logger().Debug(
		"added repository",
		"repo",
		repo,
		"authors",
		repoTotal.Authors,
		"lines",
		repoTotal.Lines,
	)
}

// Records a repository that was skipped because it could not be processed.
func (t *Totals) Fail(repo string, err error) {
	t.failed = append(t.failed, RepoFailure{Repo: repo, Err: err})
}

func (t *Totals) GrandTotal() int {
	return t.grand
}

func (t *Totals) Counts() map[string]int {
	counts := make(map[string]int, len(t.counts))
	for author, lines := range t.counts {
		counts[author] = lines
	}

	return counts
}

func (t *Totals) Repos() []RepoTotal {
	return slices.Clone(t.repos)
}

func (t *Totals) Failed() []RepoFailure {
	return slices.Clone(t.failed)
}

// Returns authors sorted by lines changed, most first. Ties keep the order in
// which authors were first seen.
func (t *Totals) Rank() []AuthorTotal {
	ranked := make([]AuthorTotal, 0, len(t.order))
	for _, author := range t.order {
		ranked = append(ranked, AuthorTotal{
			Author: author,
			Lines:  t.counts[author],
		})
	}

	slices.SortStableFunc(ranked, func(a, b AuthorTotal) int {
		return a.Compare(b)
	})
	return ranked
}
