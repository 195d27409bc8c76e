// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It merges
// CLI flags with an optional YAML configuration file into the application's
// internal configuration.
package cli
