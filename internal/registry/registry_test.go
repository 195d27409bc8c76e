package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+unit.Extension)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	return New([]unit.Root{{Path: dir, Visibility: unit.Public}}), dir
}

func toolNames(r *Registry) []string {
	var names []string
	for _, info := range r.ListTools() {
		names = append(names, info.Name)
	}
	return names
}

func TestRebuildAll_LoadsUnitsAndSummarizes(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	writeModule(t, dir, "text", `
tool "slugify" {
  param "text" {
    type = string
  }
  result = lower(replace(text, " ", "-"))
}
`)
	writeModule(t, dir, "math", `
tool "double" {
  param "n" {
    type = number
  }
  result = n * 2
}
tool "_hidden" {
  result = "never exposed"
}
`)

	summary, err := r.RebuildAll(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, summary.UnitsLoaded)
	require.Equal(t, 0, summary.UnitsRejected)
	require.Equal(t, 2, summary.Tools)
	require.Equal(t, []string{"double", "slugify"}, toolNames(r))
}

func TestRebuildAll_BrokenUnitDegradesOnlyItself(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	writeModule(t, dir, "good", `
tool "ping" {
  result = "pong"
}
`)
	writeModule(t, dir, "broken", `
tool "oops" {
  result =
`)

	summary, err := r.RebuildAll(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, summary.UnitsLoaded)
	require.Equal(t, 1, summary.UnitsRejected)
	require.Equal(t, []string{"ping"}, toolNames(r))

	rejected := r.ListRejected()
	require.Len(t, rejected, 1)
	require.Equal(t, "broken", rejected[0].Name)
	require.Contains(t, rejected[0].Reason, "syntax error")
}

func TestRebuildAll_CollisionSuffixesLaterUnit(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	// Scan order is lexicographic, so "a" claims the bare name.
	writeModule(t, dir, "a", `
tool "greet" {
  param "name" {
    type = string
  }
  result = "hello ${name}"
}
`)
	writeModule(t, dir, "b", `
tool "greet" {
  result = "hi there"
}
`)

	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"greet", "greet_b"}, toolNames(r))

	bare, ok := r.Resolve("greet")
	require.True(t, ok)
	require.Equal(t, "a", bare.Unit)
	require.False(t, bare.Renamed)

	suffixed, ok := r.Resolve("greet_b")
	require.True(t, ok)
	require.Equal(t, "b", suffixed.Unit)
	require.True(t, suffixed.Renamed)
	require.Equal(t, "greet", suffixed.Original)

	// Both remain independently callable.
	out, err := suffixed.Call(nil)
	require.NoError(t, err)
	require.Equal(t, cty.StringVal("hi there"), out)
}

func TestRebuildAll_DoubleCollisionDropsToolWithRecord(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	writeModule(t, dir, "a", `
tool "greet" {
  result = "from a"
}
`)
	// Scanned before "c", so it claims the name "c" would fall back to.
	writeModule(t, dir, "b", `
tool "greet_c" {
  result = "from b"
}
`)
	writeModule(t, dir, "c", `
tool "greet" {
  result = "from c"
}
`)

	summary, err := r.RebuildAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"greet", "greet_c"}, toolNames(r))
	require.Equal(t, 3, summary.UnitsLoaded)

	rejected := r.ListRejected()
	require.Len(t, rejected, 1)
	require.Equal(t, "c", rejected[0].Name)
	require.Contains(t, rejected[0].Reason, "collision")
	require.Contains(t, rejected[0].Reason, `"greet_c"`)
}

func TestRebuildOne_ReplacesOnlyTheNamedUnit(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	writeModule(t, dir, "stable", `
tool "ping" {
  result = "pong"
}
`)
	writeModule(t, dir, "evolving", `
tool "old_name" {
  result = "v1"
}
`)
	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)

	stableBefore, ok := r.Resolve("ping")
	require.True(t, ok)

	writeModule(t, dir, "evolving", `
tool "new_name" {
  result = "v2"
}
`)
	report, err := r.RebuildOne(context.Background(), "evolving")

	require.NoError(t, err)
	require.Equal(t, "evolving", report.Unit)
	require.Equal(t, []string{"new_name"}, report.Added)
	require.Equal(t, []string{"old_name"}, report.Removed)
	require.Empty(t, report.Rejected)
	require.True(t, report.Changed())

	// The untouched unit's descriptor is the same object as before.
	stableAfter, ok := r.Resolve("ping")
	require.True(t, ok)
	require.Same(t, stableBefore, stableAfter)
	require.Equal(t, []string{"new_name", "ping"}, toolNames(r))
}

func TestRebuildOne_FailedReloadRemovesPriorTools(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	writeModule(t, dir, "flaky", `
tool "works" {
  result = "ok"
}
`)
	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"works"}, toolNames(r))

	writeModule(t, dir, "flaky", `
tool "works" {
  result =
`)
	report, err := r.RebuildOne(context.Background(), "flaky")

	require.NoError(t, err)
	require.NotEmpty(t, report.Rejected)
	require.Equal(t, []string{"works"}, report.Removed)
	require.Empty(t, report.Added)

	// The broken version contributes nothing and is inspectable.
	require.Empty(t, toolNames(r))
	rejected := r.ListRejected()
	require.Len(t, rejected, 1)
	require.Equal(t, "flaky", rejected[0].Name)
}

func TestRebuildOne_DeletedFileDropsUnit(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	path := writeModule(t, dir, "transient", `
tool "here" {
  result = "now"
}
`)
	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	report, err := r.RebuildOne(context.Background(), "transient")

	require.NoError(t, err)
	require.Equal(t, []string{"here"}, report.Removed)
	require.Empty(t, toolNames(r))
	require.Empty(t, r.Units())
}

func TestRebuildOne_ScannerRejectedUnitNeverLoads(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	outside := t.TempDir()
	target := filepath.Join(outside, "evil.hcl")
	require.NoError(t, os.WriteFile(target, []byte(`
tool "pwn" {
  result = "should never be exposed"
}
`), 0o600))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "evil.hcl")))

	summary, err := r.RebuildAll(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.Tools)
	require.Equal(t, 1, summary.UnitsRejected)

	// A targeted reload must honor the scanner's verdict, not bypass it.
	report, err := r.RebuildOne(context.Background(), "evil")

	require.NoError(t, err)
	require.Empty(t, report.Added)
	require.Equal(t, "path escapes module root", report.Rejected)
	require.Empty(t, toolNames(r))

	rejected := r.ListRejected()
	require.Len(t, rejected, 1)
	require.Equal(t, "evil", rejected[0].Name)
	require.Equal(t, "path escapes module root", rejected[0].Reason)
}

func TestRebuildAll_DuplicateNameKeepsClaimingUnitVisible(t *testing.T) {
	t.Parallel()

	pub := t.TempDir()
	priv := t.TempDir()
	writeModule(t, pub, "greet", `
tool "greet" {
  result = "from public"
}
`)
	writeModule(t, priv, "greet", `
tool "greet" {
  result = "from private"
}
`)
	r := New([]unit.Root{
		{Path: pub, Visibility: unit.Public},
		{Path: priv, Visibility: unit.Private},
	})

	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"greet"}, toolNames(r))

	// The unit map reports the claimer as loaded regardless of how the two
	// roots' paths happen to sort.
	u, ok := r.Units()["greet"]
	require.True(t, ok)
	require.Equal(t, unit.Loaded, u.State)
	require.Equal(t, unit.Public, u.Visibility)

	rejected := r.ListRejected()
	require.Len(t, rejected, 1)
	require.Contains(t, rejected[0].Reason, "duplicate logical name")
}

func TestRebuildOne_UnknownUnit(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)

	_, err = r.RebuildOne(context.Background(), "never-existed")

	var unknown *UnknownUnitError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "never-existed", unknown.Name)
}

func TestRebuild_BusyPolicy(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)

	// Simulate an in-flight rebuild holding the lock.
	r.rebuild.Lock()
	defer r.rebuild.Unlock()

	_, err := r.RebuildAll(context.Background())
	require.ErrorIs(t, err, ErrRebuildBusy)

	_, err = r.RebuildOne(context.Background(), "anything")
	require.ErrorIs(t, err, ErrRebuildBusy)
}

func TestListTools_ExposesContract(t *testing.T) {
	t.Parallel()

	r, dir := newTestRegistry(t)
	writeModule(t, dir, "text", `
tool "truncate" {
  description = "Shorten text."
  param "text" {
    type        = string
    description = "Input text."
  }
  param "max_length" {
    type    = number
    default = 80
  }
  result = text
}
`)
	_, err := r.RebuildAll(context.Background())
	require.NoError(t, err)

	infos := r.ListTools()
	require.Len(t, infos, 1)

	info := infos[0]
	require.Equal(t, "truncate", info.Name)
	require.Equal(t, "text", info.Unit)
	require.Equal(t, "Shorten text.", info.Doc)
	require.Len(t, info.Params, 2)

	require.Equal(t, "text", info.Params[0].Name)
	require.True(t, info.Params[0].Required)
	require.Equal(t, "string", info.Params[0].Type)

	require.Equal(t, "max_length", info.Params[1].Name)
	require.False(t, info.Params[1].Required)
	require.Equal(t, "80", info.Params[1].Default)
}
