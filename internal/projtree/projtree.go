// Package projtree renders a directory tree with short per-file
// descriptions, for the project introspection tool. Descriptions come from
// the files themselves: a module file's `description` attribute, or the
// lead paragraph of a markdown document.
package projtree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

const (
	defaultMaxDepth  = 10
	descriptionLimit = 100
)

// Options narrow what Render includes.
type Options struct {
	// MaxDepth caps directory recursion; zero means the default of 10.
	MaxDepth int
	// FilterExt keeps only files with this extension (without the dot),
	// plus the directories leading to them.
	FilterExt string
}

// Render walks root and returns an indented listing, directories before
// files at each level. Dot-prefixed entries are skipped; unreadable
// directories degrade to an empty subtree rather than failing the whole
// listing. Symlinked directories are not followed.
func Render(root string, opts Options) (string, error) {
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("projtree: root %s: %w", root, err)
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	var b strings.Builder
	b.WriteString(filepath.Base(real) + "/\n")
	walk(&b, real, "  ", 1, maxDepth, opts.FilterExt)
	return b.String(), nil
}

func walk(b *strings.Builder, dir, indent string, depth, maxDepth int, filterExt string) {
	if depth > maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			var sub strings.Builder
			walk(&sub, path, indent+"  ", depth+1, maxDepth, filterExt)
			if filterExt != "" && sub.Len() == 0 {
				continue
			}
			b.WriteString(indent + name + "/\n")
			b.WriteString(sub.String())
			continue
		}

		if filterExt != "" && !strings.HasSuffix(name, "."+filterExt) {
			continue
		}
		line := indent + name
		if desc := describe(path, name); desc != "" {
			line += " - " + desc
		}
		b.WriteString(line + "\n")
	}
}

// describe returns a one-line description for the file, or "". Extraction
// never fails the listing; anything unreadable or undeclared is just blank.
func describe(path, name string) string {
	switch {
	case strings.HasSuffix(name, unit.Extension):
		return moduleDescription(path)
	case strings.HasSuffix(strings.ToLower(name), ".md"):
		return markdownLead(path)
	}
	return ""
}

// moduleDescription reads the top-level `description` attribute of a module
// file without evaluating anything else in it.
func moduleDescription(path string) string {
	src, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	file, diags := hclsyntax.ParseConfig(src, path, hcl.InitialPos)
	if diags.HasErrors() {
		return ""
	}

	content, _, _ := file.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "description"}},
	})
	attr, ok := content.Attributes["description"]
	if !ok {
		return ""
	}
	var desc string
	if diags := gohcl.DecodeExpression(attr.Expr, nil, &desc); diags.HasErrors() {
		return ""
	}
	return clip(desc)
}

// markdownLead returns the first content line of a markdown document,
// skipping headings and images.
func markdownLead(path string) string {
	src, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "![") {
			continue
		}
		return clip(line)
	}
	return ""
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > descriptionLimit {
		return s[:descriptionLimit] + "..."
	}
	return s
}
