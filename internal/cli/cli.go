package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/AJ-Gonzalez/black-orchid/internal/app"
	"github.com/AJ-Gonzalez/black-orchid/internal/config"
	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments, merging them over an optional
// configuration file. It returns a populated app.Config, a boolean indicating
// the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("black-orchid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Black Orchid - A hot-reloadable MCP tool proxy.

Modules are HCL files discovered in the configured module directories.
The server speaks MCP over stdin/stdout; logs go to stderr.

Usage:
  black-orchid [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a YAML configuration file.")
	modulesFlag := flagSet.String("modules", "modules", "Path to the public module directory.")
	privateFlag := flagSet.String("private-modules", "private/modules", "Path to the private module directory.")
	storeFlag := flagSet.String("store", "black-orchid.db", "Path to the SQLite file for preferences and memories.")
	skillsFlag := flagSet.String("skills", "skills", "Path to the markdown skills directory.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	watchFlag := flagSet.Bool("watch", false, "Rebuild automatically when module files change.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{
		Roots: []unit.Root{
			{Path: *modulesFlag, Visibility: unit.Public},
			{Path: *privateFlag, Visibility: unit.Private},
		},
		StorePath: *storeFlag,
		SkillsDir: *skillsFlag,
		LogFormat: *logFormatFlag,
		LogLevel:  *logLevelFlag,
		Watch:     *watchFlag,
	}

	if *configFlag != "" {
		file, err := config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		applyFile(&cfg, file, flagSet)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", validated)
	return validated, false, nil
}

// applyFile overlays file values onto cfg. A flag set explicitly on the
// command line wins over the file.
func applyFile(cfg *app.Config, file *config.File, flagSet *flag.FlagSet) {
	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if len(file.Roots) > 0 && !set["modules"] && !set["private-modules"] {
		roots := make([]unit.Root, 0, len(file.Roots))
		for _, r := range file.Roots {
			vis := unit.Public
			if r.Visibility == "private" {
				vis = unit.Private
			}
			roots = append(roots, unit.Root{Path: r.Path, Visibility: vis})
		}
		cfg.Roots = roots
	}
	if file.StorePath != "" && !set["store"] {
		cfg.StorePath = file.StorePath
	}
	if file.SkillsDir != "" && !set["skills"] {
		cfg.SkillsDir = file.SkillsDir
	}
	if file.Log.Format != "" && !set["log-format"] {
		cfg.LogFormat = file.Log.Format
	}
	if file.Log.Level != "" && !set["log-level"] {
		cfg.LogLevel = file.Log.Level
	}
}
