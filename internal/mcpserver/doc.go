// Package mcpserver is the transport collaborator: an MCP stdio server that
// delivers decoded (tool_name, arguments) calls to the dispatcher and
// returns encoded results. It also exposes the built-in management surface
// (proxy listing, dispatch, reload, rejection inspection) plus the
// preference, memory, skill, and introspection tools, each a thin
// pass-through to its collaborator.
package mcpserver
