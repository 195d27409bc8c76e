package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AJ-Gonzalez/black-orchid/internal/store"
)

// registerMemoryTools exposes the session-memory store.
func (s *Server) registerMemoryTools() {
	s.mcp.AddTool(mcp.NewTool("remember",
		mcp.WithDescription("Persist a memory under a topic for recall in later sessions."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic to file the memory under.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("What to remember.")),
	), s.handleRemember)

	s.mcp.AddTool(mcp.NewTool("recall",
		mcp.WithDescription("Recall every memory stored under a topic, oldest first."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic to recall.")),
	), s.handleRecall)

	s.mcp.AddTool(mcp.NewTool("forget",
		mcp.WithDescription("Delete every memory stored under a topic."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic to forget.")),
	), s.handleForget)

	s.mcp.AddTool(mcp.NewTool("list_memories",
		mcp.WithDescription("List all stored memories grouped by topic."),
	), s.handleListMemories)
}

func (s *Server) handleRemember(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.store.Remember(ctx, topic, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("remembered under %q (id %s)", topic, id)), nil
}

func (s *Server) handleRecall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	memories, err := s.store.Recall(ctx, topic)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if memories == nil {
		memories = []store.Memory{}
	}
	return mcp.NewToolResultText(jsonText(memories)), nil
}

func (s *Server) handleForget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.store.Forget(ctx, topic)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("forgot %d memories under %q", n, topic)), nil
}

func (s *Server) handleListMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memories, err := s.store.ListMemories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if memories == nil {
		memories = []store.Memory{}
	}
	return mcp.NewToolResultText(jsonText(memories)), nil
}
