package pretty

import (
	"os"

	"golang.org/x/term"
)

// Whether f is a terminal that can render color.
func AllowDynamic(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
