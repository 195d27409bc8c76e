package mcpserver

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AJ-Gonzalez/black-orchid/internal/projtree"
	"github.com/AJ-Gonzalez/black-orchid/internal/sysinfo"
)

// registerUtilityTools exposes the small always-available helpers.
func (s *Server) registerUtilityTools() {
	s.mcp.AddTool(mcp.NewTool("check_time",
		mcp.WithDescription("Check the current date and time."),
	), s.handleCheckTime)

	s.mcp.AddTool(mcp.NewTool("system_info",
		mcp.WithDescription("Return static facts about the host: OS, architecture, runtime, hostname, working directory."),
	), s.handleSystemInfo)

	s.mcp.AddTool(mcp.NewTool("project_tree",
		mcp.WithDescription("Render a project's file tree with short descriptions pulled from module files and markdown documents."),
		mcp.WithString("path", mcp.Description("Root directory to list. Defaults to the working directory.")),
		mcp.WithString("filter_ext", mcp.Description("Keep only files with this extension, e.g. hcl or md.")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum directory depth to descend.")),
	), s.handleProjectTree)
}

func (s *Server) handleCheckTime(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Filesystem-safe timestamp format.
	return mcp.NewToolResultText(time.Now().Format("2006-01-02_15-04-05")), nil
}

func (s *Server) handleSystemInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(jsonText(sysinfo.Collect())), nil
}

func (s *Server) handleProjectTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	root, _ := args["path"].(string)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		root = wd
	}

	opts := projtree.Options{}
	if ext, ok := args["filter_ext"].(string); ok {
		opts.FilterExt = strings.TrimPrefix(ext, ".")
	}
	if depth, ok := args["max_depth"].(float64); ok {
		opts.MaxDepth = int(depth)
	}

	out, err := projtree.Render(root, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
