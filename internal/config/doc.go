// Package config loads the optional YAML configuration file. Everything in
// it can also be set from the command line; flags win over file values, and
// a missing file just means defaults.
package config
