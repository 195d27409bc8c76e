package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
roots:
  - path: modules
    visibility: public
  - path: private/modules
    visibility: private

store_path: data/orchid.db
skills_dir: skills

log:
  level: debug
  format: text
`)

	f, err := Load(path)

	require.NoError(t, err)
	require.Len(t, f.Roots, 2)
	require.Equal(t, "modules", f.Roots[0].Path)
	require.Equal(t, "public", f.Roots[0].Visibility)
	require.Equal(t, "private", f.Roots[1].Visibility)
	require.Equal(t, "data/orchid.db", f.StorePath)
	require.Equal(t, "skills", f.SkillsDir)
	require.Equal(t, "debug", f.Log.Level)
	require.Equal(t, "text", f.Log.Format)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
store_path: orchid.db
store_pth: typo.db
`)

	_, err := Load(path)

	require.Error(t, err)
	require.Contains(t, err.Error(), "store_pth")
}

func TestLoad_InvalidVisibility(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
roots:
  - path: modules
    visibility: hidden
`)

	_, err := Load(path)

	require.Error(t, err)
	require.Contains(t, err.Error(), "visibility must be public or private")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
}
