package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AJ-Gonzalez/black-orchid/internal/dispatch"
	"github.com/AJ-Gonzalez/black-orchid/internal/registry"
	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// registerProxyTools exposes the registry and dispatcher management surface.
func (s *Server) registerProxyTools() {
	s.mcp.AddTool(mcp.NewTool("list_proxy_tools",
		mcp.WithDescription("List every tool available via the proxy, with documentation and parameter contracts."),
	), s.handleListProxyTools)

	s.mcp.AddTool(mcp.NewTool("use_proxy_tool",
		mcp.WithDescription("Invoke a proxy tool by ID with keyword arguments. Get IDs from list_proxy_tools; names may carry a module suffix when a collision was detected."),
		mcp.WithString("tool_id", mcp.Required(), mcp.Description("Public tool name.")),
		mcp.WithObject("kwargs", mcp.Description("Arguments for the tool, keyed by parameter name.")),
	), s.handleUseProxyTool)

	s.mcp.AddTool(mcp.NewTool("search_for_proxy_tool",
		mcp.WithDescription("Search proxy tools by keyword over their public names."),
		mcp.WithString("search_term", mcp.Required(), mcp.Description("Case-insensitive substring to match.")),
	), s.handleSearchProxyTool)

	s.mcp.AddTool(mcp.NewTool("reload_all_modules",
		mcp.WithDescription("Rediscover and reload every module from scratch, rebuilding the whole tool namespace and collision suffixes."),
	), s.handleReloadAll)

	s.mcp.AddTool(mcp.NewTool("reload_module",
		mcp.WithDescription("Reload a single module, leaving every other module's tools untouched."),
		mcp.WithString("module_name", mcp.Required(), mcp.Description("Logical module name, without the .hcl extension.")),
	), s.handleReloadModule)

	s.mcp.AddTool(mcp.NewTool("list_rejected_modules",
		mcp.WithDescription("List modules rejected during loading, with the path and cause of each rejection."),
	), s.handleListRejected)

	s.mcp.AddTool(mcp.NewTool("explain_capabilities",
		mcp.WithDescription("Summarize the proxy's capabilities: loaded modules, their tools, and current rejections. Run at session start."),
	), s.handleExplain)
}

func (s *Server) handleListProxyTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(jsonText(s.reg.ListTools())), nil
}

func (s *Server) handleUseProxyTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	toolID, err := req.RequireString("tool_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kwargs := map[string]any{}
	if raw, ok := req.GetArguments()["kwargs"]; ok && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("kwargs must be an object of parameter name to value"), nil
		}
		kwargs = m
	}

	result, err := s.disp.Call(ctx, toolID, kwargs)
	if err != nil {
		// Dispatch failures are caller-facing, never protocol errors.
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := dispatch.ResultText(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSearchProxyTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("search_term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var matches []registry.ToolInfo
	for _, info := range s.reg.ListTools() {
		if strings.Contains(strings.ToLower(info.Name), strings.ToLower(term)) {
			matches = append(matches, info)
		}
	}
	if matches == nil {
		matches = []registry.ToolInfo{}
	}
	return mcp.NewToolResultText(jsonText(matches)), nil
}

func (s *Server) handleReloadAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.reg.RebuildAll(ctx)
	if errors.Is(err, registry.ErrRebuildBusy) {
		return mcp.NewToolResultError("a reload is already in progress, try again"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary.String()), nil
}

func (s *Server) handleReloadModule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("module_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.reg.RebuildOne(ctx, name)
	if errors.Is(err, registry.ErrRebuildBusy) {
		return mcp.NewToolResultError("a reload is already in progress, try again"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := map[string]any{
		"success":       report.Rejected == "",
		"reloaded":      report.Unit,
		"tools_added":   emptyIfNil(report.Added),
		"tools_removed": emptyIfNil(report.Removed),
	}
	if report.Rejected != "" {
		resp["error"] = report.Rejected
	}
	if report.Changed() {
		resp["suggestion"] = "consider reload_all_modules to rebuild collision suffixes"
	}
	return mcp.NewToolResultText(jsonText(resp)), nil
}

func (s *Server) handleListRejected(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rejected := s.reg.ListRejected()
	if rejected == nil {
		rejected = []unit.RejectedRecord{}
	}
	return mcp.NewToolResultText(jsonText(rejected)), nil
}

func (s *Server) handleExplain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("Black Orchid: hot-reloadable MCP proxy\n\n")
	b.WriteString("Modules are HCL files discovered under the configured roots. Edit a file,\n")
	b.WriteString("then reload_module or reload_all_modules; broken modules degrade only\n")
	b.WriteString("themselves and show up in list_rejected_modules.\n\n")

	tools := s.reg.ListTools()
	byUnit := make(map[string][]string)
	for _, info := range tools {
		byUnit[info.Unit] = append(byUnit[info.Unit], info.Name)
	}

	// Walk the unit set, not the tool set, so a module that loads but
	// exports nothing still shows up.
	var unitNames []string
	for name, u := range s.reg.Units() {
		if u.State == unit.Loaded {
			unitNames = append(unitNames, name)
		}
	}
	sort.Strings(unitNames)

	fmt.Fprintf(&b, "LOADED MODULES (%d modules, %d tools):\n", len(unitNames), len(tools))
	for _, name := range unitNames {
		names := byUnit[name]
		if len(names) == 0 {
			fmt.Fprintf(&b, "  [%s] (no exported tools)\n", name)
			continue
		}
		fmt.Fprintf(&b, "  [%s] %s\n", name, strings.Join(names, ", "))
	}

	if rejected := s.reg.ListRejected(); len(rejected) > 0 {
		fmt.Fprintf(&b, "\nREJECTED MODULES (%d):\n", len(rejected))
		for _, rec := range rejected {
			fmt.Fprintf(&b, "  %s: %s\n", rec.Name, rec.Reason)
		}
	}

	b.WriteString("\nManagement tools: list_proxy_tools, use_proxy_tool, search_for_proxy_tool,\n")
	b.WriteString("reload_all_modules, reload_module, list_rejected_modules, check_time,\n")
	b.WriteString("system_info, preferences, memories, and skills.\n")
	return mcp.NewToolResultText(b.String()), nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
