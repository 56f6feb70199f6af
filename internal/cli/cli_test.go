package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elpulgo/pullrefresh/internal/config"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
	"github.com/Elpulgo/pullrefresh/internal/version"
)

var testBuild = version.Build{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01"}

func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func() bool { return tty }
	t.Cleanup(func() { isTerminal = orig })
}

// execute runs the command tree and returns the config passed to run, if
// it was called, and the output.
func execute(t *testing.T, args ...string) (*config.Config, string, error) {
	t.Helper()

	var got *config.Config
	cmd := NewRootCommand(testBuild, func(ctx context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, out.String(), err
}

func TestRoot_RequiresTerminal(t *testing.T) {
	withTerminal(t, false)

	cfg, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "config.yaml"))
	assert.ErrorIs(t, err, ErrNotTerminal)
	assert.Nil(t, cfg)
}

func TestRoot_LoadsDefaultsWithoutFile(t *testing.T) {
	withTerminal(t, true)

	cfg, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultTheme, cfg.Theme)
	assert.Equal(t, refresh.ModePlain, cfg.Mode())
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

func TestRoot_FlagsOverrideFile(t *testing.T) {
	withTerminal(t, true)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: nord\nrefresh:\n  easing: true\n"), 0644))

	cfg, _, err := execute(t,
		"--config", path,
		"--scrollable",
		"--theme", "dracula",
		"--debug",
		"--log-file", "/tmp/pullrefresh.log",
		"--metrics-addr", "127.0.0.1:9090",
	)
	require.NoError(t, err)

	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, refresh.ModeScrollable, cfg.Mode())
	assert.True(t, cfg.Refresh.Easing, "unset flags keep the file value")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/pullrefresh.log", cfg.LogFile)
	assert.Equal(t, "127.0.0.1:9090", cfg.MetricsAddr)
}

func TestRoot_ExplicitFalseFlagOverridesFile(t *testing.T) {
	withTerminal(t, true)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh:\n  easing: true\n"), 0644))

	cfg, _, err := execute(t, "--config", path, "--easing=false")
	require.NoError(t, err)
	assert.False(t, cfg.Refresh.Easing)
}

func TestRoot_InvalidConfig(t *testing.T) {
	withTerminal(t, true)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh:\n  trigger_threshold: 500\n  max_pull: 100\n"), 0644))

	cfg, _, err := execute(t, "--config", path)
	assert.ErrorIs(t, err, refresh.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestRoot_RejectsArguments(t *testing.T) {
	withTerminal(t, true)

	_, _, err := execute(t, "unexpected")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	_, out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, testBuild.String()+"\n", out)

	_, out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, testBuild.String()+"\n", out)
}

func TestVersion_Check(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"tag_name": "v2.0.0",
			"html_url": "https://github.com/Elpulgo/pullrefresh/releases/tag/v2.0.0",
		})
	}))
	defer server.Close()

	orig := newChecker
	newChecker = func(current string) *version.Checker {
		return version.NewChecker(current, version.WithAPIURL(server.URL))
	}
	t.Cleanup(func() { newChecker = orig })

	_, out, err := execute(t, "version", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "A newer version is available: v2.0.0")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTheme, cfg.Theme)

	_, _, err = execute(t, "config", "init", "--config", path)
	assert.Error(t, err, "existing file needs --force")

	_, _, err = execute(t, "config", "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	_, out, err := execute(t, "config", "path", "--config", "/etc/pullrefresh.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/pullrefresh.yaml\n", out)

	home := t.TempDir()
	t.Setenv("HOME", home)
	_, out, err = execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "pullrefresh", "config.yaml")+"\n", out)
}
