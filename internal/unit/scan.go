package unit

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AJ-Gonzalez/black-orchid/internal/ctxlog"
)

// Root is a configured module directory. Roots that do not exist are not an
// error; they are treated as "no units of that visibility configured".
type Root struct {
	Path       string
	Visibility Visibility
}

// Scan enumerates every loadable unit directly under the given roots,
// non-recursively, and returns the descriptors ordered lexicographically by
// logical name. Descriptors are constructed only from verified real paths; a
// candidate whose resolved path escapes its root is yielded already rejected
// so the attempt stays inspectable, and is never handed to the loader.
func Scan(ctx context.Context, roots []Root) ([]*Unit, error) {
	logger := ctxlog.FromContext(ctx)

	var units []*Unit
	seen := make(map[string]string) // logical name -> root path that claimed it

	for _, root := range roots {
		realRoot, err := filepath.EvalSymlinks(root.Path)
		if err != nil {
			logger.Debug("Skipping missing module root.", "path", root.Path)
			continue
		}

		entries, err := os.ReadDir(realRoot)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
				continue
			}

			name := strings.TrimSuffix(entry.Name(), Extension)
			u := &Unit{
				Name:       name,
				Visibility: root.Visibility,
				State:      Unloaded,
			}

			real, err := filepath.EvalSymlinks(filepath.Join(realRoot, entry.Name()))
			if err != nil {
				u.Path = filepath.Join(realRoot, entry.Name())
				u.Reject("unreadable path: " + err.Error())
				units = append(units, u)
				continue
			}
			u.Path = real

			// The sole traversal defense: the resolved path must still sit
			// directly under the resolved root.
			if filepath.Dir(real) != realRoot {
				u.Reject("path escapes module root")
				units = append(units, u)
				continue
			}

			if prev, dup := seen[name]; dup {
				u.Reject("duplicate logical name, already provided by " + prev)
				units = append(units, u)
				continue
			}
			seen[name] = realRoot
			units = append(units, u)
		}
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].Name != units[j].Name {
			return units[i].Name < units[j].Name
		}
		return units[i].Path < units[j].Path
	})

	logger.Debug("Scan complete.", "units_found", len(units))
	return units, nil
}

// Find locates a single unit by logical name across the given roots,
// applying the same verification as Scan. The bool reports whether the unit
// exists in the current scan set.
func Find(ctx context.Context, roots []Root, name string) (*Unit, bool, error) {
	units, err := Scan(ctx, roots)
	if err != nil {
		return nil, false, err
	}
	for _, u := range units {
		if u.Name == name {
			return u, true, nil
		}
	}
	return nil, false, nil
}
