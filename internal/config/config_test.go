package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/linesum/git-linesum/internal/config"
)

// Makes sure a variable is unset for the test and restored afterward.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()

	require.Len(t, cfg.Repos, 8)
	require.Equal(t, "git-quick-stats", cfg.StatsCmd)
	require.Equal(t, "-T", cfg.StatsFlag)
	require.NoError(t, cfg.Validate())

	// Defaults hand out a copy.
	cfg.Repos[0] = "changed"
	require.NotEqual(t, "changed", config.DefaultRepos[0])
}

func TestFromEnv(t *testing.T) {
	t.Setenv(config.EnvRepos, "https://a/x.git, ,https://b/y.git")
	t.Setenv(config.EnvStatsCmd, "/opt/bin/git-quick-stats")
	t.Setenv(config.EnvBackend, "go-git")
	t.Setenv(config.EnvKeepGoing, "true")
	unsetEnv(t, config.EnvStatsFlag)
	unsetEnv(t, config.EnvWorkDir)

	cfg, err := config.FromEnv(config.Defaults())
	require.NoError(t, err)

	expected := []string{"https://a/x.git", "https://b/y.git"}
	if diff := cmp.Diff(expected, cfg.Repos); diff != "" {
		t.Errorf("repos are wrong:\n%s", diff)
	}
	require.Equal(t, "/opt/bin/git-quick-stats", cfg.StatsCmd)
	require.Equal(t, "-T", cfg.StatsFlag)
	require.Equal(t, "go-git", cfg.Backend)
	require.True(t, cfg.KeepGoing)
}

func TestFromEnvBadBool(t *testing.T) {
	t.Setenv(config.EnvKeepGoing, "sometimes")

	_, err := config.FromEnv(config.Defaults())
	require.ErrorContains(t, err, config.EnvKeepGoing)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(
		filepath.Join(dir, ".env"),
		[]byte("LINESUM_REPOS=https://a/x.git\nLINESUM_BACKEND=go-git\n"),
		0o644,
	)
	require.NoError(t, err)

	unsetEnv(t, config.EnvRepos)
	unsetEnv(t, config.EnvBackend)
	t.Chdir(dir)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"https://a/x.git"}, cfg.Repos)
	require.Equal(t, "go-git", cfg.Backend)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	unsetEnv(t, config.EnvRepos)
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.DefaultRepos, cfg.Repos)
}

func TestReadReposFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.txt")
	contents := `# team repos
https://example.com/a.git

  git@example.com:org/b.git  
# retired
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	repos, err := config.ReadReposFile(path)
	require.NoError(t, err)

	expected := []string{"https://example.com/a.git", "git@example.com:org/b.git"}
	if diff := cmp.Diff(expected, repos); diff != "" {
		t.Errorf("repos are wrong:\n%s", diff)
	}
}

func TestReadReposFileMissing(t *testing.T) {
	_, err := config.ReadReposFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorContains(t, err, "error reading repos file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *config.Config)
		errMsg string
	}{
		{
			"valid",
			func(cfg *config.Config) {},
			"",
		},
		{
			"no_repos",
			func(cfg *config.Config) { cfg.Repos = nil },
			"no repositories configured",
		},
		{
			"blank_repo",
			func(cfg *config.Config) { cfg.Repos = []string{"https://a/x.git", ""} },
			"Repos[1] must not be empty",
		},
		{
			"bad_backend",
			func(cfg *config.Config) { cfg.Backend = "svn" },
			"Backend must be one of [cli go-git]",
		},
		{
			"bad_format",
			func(cfg *config.Config) { cfg.Format = "pdf" },
			"Format must be one of",
		},
		{
			"xlsx_without_out",
			func(cfg *config.Config) { cfg.Format = "xlsx" },
			"Out is required",
		},
		{
			"xlsx_with_out",
			func(cfg *config.Config) {
				cfg.Format = "xlsx"
				cfg.Out = "totals.xlsx"
			},
			"",
		},
		{
			"empty_stats_cmd",
			func(cfg *config.Config) { cfg.StatsCmd = "" },
			"StatsCmd must not be empty",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := config.Defaults()
			test.modify(&cfg)

			err := cfg.Validate()
			if test.errMsg == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, test.errMsg)
			}
		})
	}
}
