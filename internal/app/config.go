package app

import (
	"errors"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// Roots are the module directories, in configuration order. The scanner
	// treats missing roots as empty.
	Roots []unit.Root

	// StorePath is the SQLite file backing preferences and session memory.
	StorePath string
	// SkillsDir holds markdown skill documents.
	SkillsDir string

	LogFormat string
	LogLevel  string

	// Watch enables filesystem-triggered full rebuilds.
	Watch bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Roots) == 0 {
		return nil, errors.New("at least one module root is required")
	}
	if cfg.StorePath == "" {
		return nil, errors.New("store path is required")
	}
	return &cfg, nil
}
