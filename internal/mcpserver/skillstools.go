package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AJ-Gonzalez/black-orchid/internal/skills"
)

// registerSkillTools exposes the markdown skill library.
func (s *Server) registerSkillTools() {
	s.mcp.AddTool(mcp.NewTool("list_skills",
		mcp.WithDescription("List the available skill documents."),
	), s.handleListSkills)

	s.mcp.AddTool(mcp.NewTool("load_skill",
		mcp.WithDescription("Load a skill document's markdown content verbatim."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Skill name, without the .md extension.")),
	), s.handleLoadSkill)
}

func (s *Server) handleListSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.skills.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if list == nil {
		list = []skills.Skill{}
	}
	return mcp.NewToolResultText(jsonText(list)), nil
}

func (s *Server) handleLoadSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.skills.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}
