package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Len(t, cfg.Roots, 2)
	require.Equal(t, unit.Root{Path: "modules", Visibility: unit.Public}, cfg.Roots[0])
	require.Equal(t, unit.Root{Path: "private/modules", Visibility: unit.Private}, cfg.Roots[1])
	require.Equal(t, "black-orchid.db", cfg.StorePath)
	require.Equal(t, "skills", cfg.SkillsDir)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Watch)
}

func TestParse_Flags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"-modules", "my/modules",
		"-store", "my.db",
		"-log-level", "DEBUG",
		"-log-format", "text",
		"-watch",
	}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "my/modules", cfg.Roots[0].Path)
	require.Equal(t, "my.db", cfg.StorePath)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.True(t, cfg.Watch)
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"--bogus"}, wantMsg: "flag provided but not defined"},
		{name: "bad log level", args: []string{"-log-level", "loud"}, wantMsg: "invalid log-level"},
		{name: "bad log format", args: []string{"-log-format", "xml"}, wantMsg: "invalid log-format"},
		{name: "empty store path", args: []string{"-store", ""}, wantMsg: "store path is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestParse_ConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roots:
  - path: from/file
    visibility: private

store_path: file.db

log:
  level: warn
`), 0o600))

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-config", path}, out)

	require.NoError(t, err)
	require.Len(t, cfg.Roots, 1)
	require.Equal(t, unit.Root{Path: "from/file", Visibility: unit.Private}, cfg.Roots[0])
	require.Equal(t, "file.db", cfg.StorePath)
	require.Equal(t, "warn", cfg.LogLevel)
	// Values the file does not set keep their flag defaults.
	require.Equal(t, "skills", cfg.SkillsDir)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestParse_FlagsWinOverConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roots:
  - path: from/file

store_path: file.db
`), 0o600))

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{
		"-config", path,
		"-modules", "from/flag",
		"-store", "flag.db",
	}, out)

	require.NoError(t, err)
	require.Equal(t, "from/flag", cfg.Roots[0].Path)
	require.Equal(t, "flag.db", cfg.StorePath)
}

func TestParse_BadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o600))

	_, _, err := Parse([]string{"-config", path}, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}
