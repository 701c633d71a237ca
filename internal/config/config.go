// Loads run configuration from defaults, a .env file, and the environment.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvRepos     = "LINESUM_REPOS"
	EnvStatsCmd  = "LINESUM_STATS_CMD"
	EnvStatsFlag = "LINESUM_STATS_FLAG"
	EnvBackend   = "LINESUM_BACKEND"
	EnvKeepGoing = "LINESUM_KEEP_GOING"
	EnvWorkDir   = "LINESUM_WORKDIR"
)

var ErrNoRepos = errors.New("no repositories configured")

// Repositories aggregated when nothing else is configured.
var DefaultRepos = []string{
	"git@github.com:turnitin/tii-assisted-grading-services.git",
	"git@github.com:turnitin/tii-checklist-editor-services.git",
	"git@github.com:turnitin/paper-to-digital-services.git",
	"git@github.com:turnitin/tii-mfe-lib.git",
	"git@github.com:turnitin/tii-assisted-grading-mfe.git",
	"git@github.com:turnitin/region-board.git",
	"git@github.com:turnitin/tii-router.git",
	"git@github.com:turnitin/paper-to-digital-mfe.git",
}

type Config struct {
	Repos     []string `validate:"dive,required"`
	StatsCmd  string   `validate:"required"`
	StatsFlag string   `validate:"required"`
	Backend   string   `validate:"oneof=cli go-git"`
	KeepGoing bool
	WorkDir   string
	Format    string `validate:"oneof=text csv xlsx"`
	Out       string `validate:"required_if=Format xlsx"`
	ByRepo    bool
	Pretty    bool
}

func Defaults() Config {
	return Config{
		Repos:     append([]string(nil), DefaultRepos...),
		StatsCmd:  "git-quick-stats",
		StatsFlag: "-T",
		Backend:   "cli",
		Format:    "text",
	}
}

// Loads a .env file from the working directory if one exists, then applies
// environment variables on top of the defaults.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load .env file: %w", err)
	}

	return FromEnv(Defaults())
}

func FromEnv(cfg Config) (Config, error) {
	if v, ok := os.LookupEnv(EnvRepos); ok {
		cfg.Repos = SplitList(v)
	}

	cfg.StatsCmd = getEnv(EnvStatsCmd, cfg.StatsCmd)
	cfg.StatsFlag = getEnv(EnvStatsFlag, cfg.StatsFlag)
	cfg.Backend = getEnv(EnvBackend, cfg.Backend)
	cfg.WorkDir = getEnv(EnvWorkDir, cfg.WorkDir)

	if v, ok := os.LookupEnv(EnvKeepGoing); ok && v != "" {
		keepGoing, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s value: %w", EnvKeepGoing, err)
		}
		cfg.KeepGoing = keepGoing
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

// Reads repository URLs from a file, one per line. Blank lines and lines
// starting with "#" are ignored.
func ReadReposFile(path string) (_ []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error reading repos file: %w", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	repos := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		repos = append(repos, line)
	}

	err = scanner.Err()
	if err != nil {
		return nil, err
	}

	return repos, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (cfg Config) Validate() error {
	if len(cfg.Repos) == 0 {
		return ErrNoRepos
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := []string{}
	for _, e := range validationErrors {
		msgs = append(msgs, describe(e))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", e.Field())
	case "oneof":
		return fmt.Sprintf(
			"%s must be one of [%s], got \"%v\"",
			e.Field(),
			e.Param(),
			e.Value(),
		)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
	}
}
