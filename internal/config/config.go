package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Root configures one module directory.
type Root struct {
	Path       string `yaml:"path"`
	Visibility string `yaml:"visibility"`
}

// File is the on-disk configuration shape.
type File struct {
	Roots     []Root `yaml:"roots"`
	StorePath string `yaml:"store_path"`
	SkillsDir string `yaml:"skills_dir"`
	Log       struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads and decodes the file at path. A strict decoder surfaces typos
// in key names instead of ignoring them.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	for _, r := range f.Roots {
		switch r.Visibility {
		case "", "public", "private":
		default:
			return nil, fmt.Errorf("config: root %q: visibility must be public or private, got %q", r.Path, r.Visibility)
		}
	}
	return &f, nil
}
