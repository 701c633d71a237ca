package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/linesum/git-linesum/internal/config"
	"github.com/linesum/git-linesum/internal/flagutils"
)

var Commit = "unknown"
var Version = "unknown"

var progStart time.Time

type command struct {
	flagSet     *flag.FlagSet
	run         func(ctx context.Context, args []string) error
	description string
}

// Main examines the args and delegates to the specified subcommand.
//
// If no subcommand was specified, we default to the "total" subcommand.
func main() {
	subcommands := map[string]command{ // Available subcommands
		"dump":  dumpCmd(),
		"parse": parseCmd(),
		"total": totalCmd(),
	}

	// --- Handle top-level flags ---
	mainFlagSet := flag.NewFlagSet("git-linesum", flag.ExitOnError)

	versionFlag := mainFlagSet.Bool("version", false, "Print version and exit")
	verboseFlag := mainFlagSet.Bool("v", false, "Enables debug logging")

	mainFlagSet.Usage = func() {
		fmt.Println("Usage: git-linesum [-v] [subcommand] [subcommand options...]")
		fmt.Println("git-linesum totals lines changed by author across repositories")

		fmt.Println()
		fmt.Println("Top-level options:")
		mainFlagSet.PrintDefaults()

		fmt.Println()
		fmt.Println("Subcommands:")

		helpSubcommands := []string{"total", "parse", "dump"}
		for _, name := range helpSubcommands {
			cmd := subcommands[name]

			fmt.Printf("  %s\n", name)
			fmt.Printf("\t%s\n", cmd.description)
		}
	}

	// Look for the index of the first arg not intended as a top-level flag.
	// We handle this manually so that specifying the default subcommand is
	// optional even when providing subcommand flags.
	subcmdIndex := 1
loop:
	for subcmdIndex < len(os.Args) {
		switch os.Args[subcmdIndex] {
		case "-version", "--version", "-v", "--v", "-h", "--help":
			subcmdIndex += 1
		default:
			break loop
		}
	}

	mainFlagSet.Parse(os.Args[1:subcmdIndex])

	if *versionFlag {
		fmt.Printf("%s %s\n", Version, Commit)
		return
	}

	if *verboseFlag {
		configureLogging(slog.LevelDebug)
		logger().Debug("log level set to DEBUG")
	} else {
		configureLogging(slog.LevelInfo)
	}

	args := os.Args[subcmdIndex:]

	// --- Handle subcommands ---
	cmd := subcommands["total"] // Default to "total"
	if len(args) > 0 {
		first := args[0]
		if subcommand, ok := subcommands[first]; ok {
			cmd = subcommand
			args = args[1:]
		}
	}

	cmd.flagSet.Parse(args)
	subargs := cmd.flagSet.Args()

	// Interrupts cancel the run so checkouts still get cleaned up.
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	progStart = time.Now()
	err := cmd.run(ctx, subargs)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// -v- Subcommand definitions --------------------------------------------------

func totalCmd() command {
	flagSet := flag.NewFlagSet("git-linesum total", flag.ExitOnError)

	var repos flagutils.SliceFlag
	flagSet.Var(&repos, "repo", strings.TrimSpace(`
Repository URL to include. Can be specified multiple times
	`))

	reposFile := flagSet.String("repos-file", "", "Read repository URLs from file, one per line")
	keepGoing := flagSet.Bool("keep-going", false, "Skip repositories that fail instead of aborting")
	backend := flagSet.String("backend", "cli", "How to clone and fetch: cli or go-git")
	outFormat := flagSet.String("format", "text", "Output format: text, csv or xlsx")
	out := flagSet.String("out", "", "Write output to file instead of stdout (required for xlsx)")
	byRepo := flagSet.Bool("by-repo", false, "Also show totals per repository")
	usePretty := flagSet.Bool("pretty", false, "Group digits and color output on a terminal")
	workDir := flagSet.String("workdir", "", "Keep checkouts in this directory instead of a temp dir")
	statsCmd := flagSet.String("stats-cmd", "git-quick-stats", "Stats tool to run in each repository")

	description := "Sum lines changed per author across all repositories"

	flagSet.Usage = func() {
		fmt.Println(strings.TrimSpace(`
Usage: git-linesum total [options...]
		`))
		fmt.Println(description)
		fmt.Println()
		flagSet.PrintDefaults()
	}

	return command{
		flagSet:     flagSet,
		description: description,
		run: func(ctx context.Context, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Flags given explicitly win over .env and environment
			isSet := map[string]bool{}
			flagSet.Visit(func(f *flag.Flag) { isSet[f.Name] = true })

			if len(repos) > 0 || *reposFile != "" {
				cfg.Repos = append([]string{}, repos...)

				if *reposFile != "" {
					fromFile, err := config.ReadReposFile(*reposFile)
					if err != nil {
						return err
					}
					cfg.Repos = append(cfg.Repos, fromFile...)
				}
			}

			if isSet["keep-going"] {
				cfg.KeepGoing = *keepGoing
			}
			if isSet["backend"] {
				cfg.Backend = *backend
			}
			if isSet["workdir"] {
				cfg.WorkDir = *workDir
			}
			if isSet["stats-cmd"] {
				cfg.StatsCmd = *statsCmd
			}

			cfg.Format = *outFormat
			cfg.Out = *out
			cfg.ByRepo = *byRepo
			cfg.Pretty = *usePretty

			err = cfg.Validate()
			if err != nil {
				return err
			}

			return total(ctx, cfg)
		},
	}
}

func parseCmd() command {
	flagSet := flag.NewFlagSet("git-linesum parse", flag.ExitOnError)

	description := "Parse a saved git-quick-stats report and print per-author counts"

	flagSet.Usage = func() {
		fmt.Println(strings.TrimSpace(`
Usage: git-linesum parse [file]
		`))
		fmt.Println(description)
		fmt.Println("Reads from stdin when no file is given")
	}

	return command{
		flagSet:     flagSet,
		description: description,
		run: func(ctx context.Context, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			return parse(path)
		},
	}
}

func dumpCmd() command {
	flagSet := flag.NewFlagSet("git-linesum dump", flag.ExitOnError)

	statsCmd := flagSet.String("stats-cmd", "", "Stats tool to run (default from config)")

	description := "Print the raw stats report for a local repository"

	flagSet.Usage = func() {
		fmt.Println(strings.TrimSpace(`
Usage: git-linesum dump [options...] [dir]
		`))
		fmt.Println(description)
		fmt.Println()
		flagSet.PrintDefaults()
	}

	return command{
		flagSet:     flagSet,
		description: description,
		run: func(ctx context.Context, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if *statsCmd != "" {
				cfg.StatsCmd = *statsCmd
			}

			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			return dump(ctx, dir, cfg.StatsCmd, cfg.StatsFlag)
		},
	}
}

// -^---------------------------------------------------------------------------

func configureLogging(level slog.Level) {
	handler := slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{
			Level: level,
		},
	)
	logger := slog.New(handler)
	slog.SetDefault(logger)
}
