package quickstats

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Heading that introduces the per-author section of `git-quick-stats -T`.
const SectionMarker = "Contribution stats By Author"

var authorHeaderRegexp *regexp.Regexp
var linesChangedRegexp *regexp.Regexp

func init() {
	authorHeaderRegexp = regexp.MustCompile(`^(.+?) <.+?>:$`)
	linesChangedRegexp = regexp.MustCompile(`^lines changed:\s+(\d+)`)
}

type AuthorLines struct {
	Author string
	Lines  int
}

// Per-author line-change totals from a single report.
//
// Authors are kept in order of first appearance.
type Report struct {
	Authors []AuthorLines
}

func (r Report) Counts() map[string]int {
	counts := make(map[string]int, len(r.Authors))
	for _, a := range r.Authors {
		counts[a.Author] = a.Lines
	}

	return counts
}

func (r Report) Total() int {
	total := 0
	for _, a := range r.Authors {
		total += a.Lines
	}

	return total
}

func (r *Report) add(author string, lines int) {
	for i := range r.Authors {
		if r.Authors[i].Author == author {
			r.Authors[i].Lines += lines
			return
		}
	}

	r.Authors = append(r.Authors, AuthorLines{Author: author, Lines: lines})
}

// Parses the full text output of `git-quick-stats -T`.
func ParseReport(text string) Report {
	return ParseLines(strings.Lines(text))
}

// Turns an iterator over report lines into per-author totals.
//
// A missing section marker is not an error; the report is simply empty.
func ParseLines(lines iter.Seq[string]) Report {
	var report Report

	foundMarker := false
	inBlock := false
	var author string
	var changed int

	endBlock := func() {
		if inBlock {
			report.add(author, changed)
		}
		inBlock = false
		author = ""
		changed = 0
	}

	for line := range lines {
		line = strings.TrimRight(line, "\r\n")

		if !foundMarker {
			foundMarker = strings.Contains(line, SectionMarker)
			continue
		}

		trimmed := strings.TrimSpace(line)
		header := authorHeaderRegexp.FindStringSubmatch(trimmed)

		// Indented lines stay in the current block, even header-shaped ones.
		// Only an unindented (or blank) line ends it.
		if inBlock && isIndented(line) {
			if n, ok := parseLinesChanged(trimmed); ok {
				changed = n
			}
			continue
		}

		endBlock()

		if header != nil {
			inBlock = true
			author = strings.TrimSpace(header[1])
		}
	}

	endBlock()

	if !foundMarker {
		logger().Debug("report has no author section", "marker", SectionMarker)
	}

	return report
}

func isIndented(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return line != "" && unicode.IsSpace(r)
}

func parseLinesChanged(entry string) (int, bool) {
	matches := linesChangedRegexp.FindStringSubmatch(entry)
	if matches == nil {
		return 0, false
	}

	n, err := strconv.Atoi(matches[1])
	if err != nil {
		logger().Debug(
			"ignoring unparseable line count",
			"line",
			entry,
			"err",
			err,
		)
		return 0, false
	}

	return n, true
}
