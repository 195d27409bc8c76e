package skills

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AJ-Gonzalez/black-orchid/internal/ctxlog"
)

// Extension marks a skill document.
const Extension = ".md"

// Skill identifies one available document.
type Skill struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Library reads skill documents from a single directory, non-recursively.
// A missing directory means no skills are configured, not an error.
type Library struct {
	dir string
}

// New creates a Library over the given directory.
func New(dir string) *Library {
	return &Library{dir: dir}
}

// List returns the available skills sorted by name.
func (l *Library) List(ctx context.Context) ([]Skill, error) {
	realDir, err := filepath.EvalSymlinks(l.dir)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Skills directory missing.", "path", l.dir)
		return nil, nil
	}

	entries, err := os.ReadDir(realDir)
	if err != nil {
		return nil, fmt.Errorf("skills: read directory: %w", err)
	}

	var out []Skill
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		out = append(out, Skill{
			Name: strings.TrimSuffix(entry.Name(), Extension),
			Path: filepath.Join(realDir, entry.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Load returns a skill document's content verbatim. Names containing path
// separators are refused outright, and the resolved file must still sit
// directly under the skills directory.
func (l *Library) Load(ctx context.Context, name string) (string, error) {
	if strings.ContainsAny(name, `/\`) || name == "" || name == ".." {
		return "", fmt.Errorf("skills: invalid skill name %q", name)
	}

	realDir, err := filepath.EvalSymlinks(l.dir)
	if err != nil {
		return "", fmt.Errorf("skills: no skills directory configured")
	}

	real, err := filepath.EvalSymlinks(filepath.Join(realDir, name+Extension))
	if err != nil {
		return "", fmt.Errorf("skills: skill %q not found", name)
	}
	if filepath.Dir(real) != realDir {
		return "", fmt.Errorf("skills: skill %q resolves outside the skills directory", name)
	}

	content, err := os.ReadFile(real)
	if err != nil {
		return "", fmt.Errorf("skills: read %q: %w", name, err)
	}
	return string(content), nil
}
