package skills

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review.md"), []byte("# Review"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug.md"), []byte("# Debug"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	list, err := New(dir).List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "debug", list[0].Name)
	require.Equal(t, "review", list[1].Name)
}

func TestList_MissingDirectory(t *testing.T) {
	t.Parallel()

	list, err := New(filepath.Join(t.TempDir(), "absent")).List(context.Background())

	require.NoError(t, err)
	require.Empty(t, list)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "# Review\n\nLook closely.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review.md"), []byte(content), 0o600))

	got, err := New(dir).Load(context.Background(), "review")

	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestLoad_InvalidNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lib := New(dir)

	for _, name := range []string{"", "..", "a/b", `a\b`, "../outside"} {
		_, err := lib.Load(context.Background(), name)
		require.Error(t, err, "name %q should be refused", name)
	}
}

func TestLoad_SymlinkEscapeRefused(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.md")
	require.NoError(t, os.WriteFile(target, []byte("secret"), 0o600))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "sneaky.md")))

	_, err := New(dir).Load(context.Background(), "sneaky")

	require.Error(t, err)
	require.Contains(t, err.Error(), "resolves outside")
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir()).Load(context.Background(), "nope")

	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}
