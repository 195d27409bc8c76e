// Package app encapsulates the proxy's dependencies, configuration, and
// lifecycle: logger, registry, dispatcher, persistence, skills, the MCP
// transport, and the optional filesystem watcher.
package app
