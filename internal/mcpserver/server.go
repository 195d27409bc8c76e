package mcpserver

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/AJ-Gonzalez/black-orchid/internal/dispatch"
	"github.com/AJ-Gonzalez/black-orchid/internal/registry"
	"github.com/AJ-Gonzalez/black-orchid/internal/skills"
	"github.com/AJ-Gonzalez/black-orchid/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

const instructions = `Black Orchid proxies a hot-reloadable set of tools defined in HCL module
files. Call list_proxy_tools to see what is loaded, use_proxy_tool to invoke
one, and reload_all_modules / reload_module after editing module files.
Rejected modules and their causes are visible via list_rejected_modules.`

// Options carries the collaborators the server exposes.
type Options struct {
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
	Store      *store.Store
	Skills     *skills.Library
}

// Server wires the MCP server with every built-in tool registered.
type Server struct {
	reg    *registry.Registry
	disp   *dispatch.Dispatcher
	store  *store.Store
	skills *skills.Library
	mcp    *server.MCPServer
}

// New creates the server and registers the built-in tool surface.
func New(opts Options) *Server {
	s := &Server{
		reg:    opts.Registry,
		disp:   opts.Dispatcher,
		store:  opts.Store,
		skills: opts.Skills,
	}

	s.mcp = server.NewMCPServer(
		"black-orchid",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	s.registerProxyTools()
	s.registerUtilityTools()
	s.registerPreferenceTools()
	s.registerMemoryTools()
	s.registerSkillTools()

	return s
}

// ServeStdio serves MCP over stdin/stdout until ctx is cancelled or the
// stream closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// jsonText renders a value as indented JSON for a text result. Marshal
// failures surface as the error string so the caller still gets a response.
func jsonText(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "failed to encode response"}`
	}
	return string(raw)
}
