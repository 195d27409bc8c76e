package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AJ-Gonzalez/black-orchid/internal/store"
)

// registerPreferenceTools exposes the cross-session preference store.
func (s *Server) registerPreferenceTools() {
	s.mcp.AddTool(mcp.NewTool("save_preference",
		mcp.WithDescription("Persist a working preference under a key, replacing any previous value."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Preference key.")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Preference value.")),
	), s.handleSavePreference)

	s.mcp.AddTool(mcp.NewTool("get_preference",
		mcp.WithDescription("Read a previously saved preference."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Preference key.")),
	), s.handleGetPreference)

	s.mcp.AddTool(mcp.NewTool("delete_preference",
		mcp.WithDescription("Remove a saved preference."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Preference key.")),
	), s.handleDeletePreference)

	s.mcp.AddTool(mcp.NewTool("list_preferences",
		mcp.WithDescription("List all saved preferences in key order."),
	), s.handleListPreferences)
}

func (s *Server) handleSavePreference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.SetPreference(ctx, key, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved preference %q", key)), nil
}

func (s *Server) handleGetPreference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := s.store.GetPreference(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no preference saved under %q", key)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(value), nil
}

func (s *Server) handleDeletePreference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.DeletePreference(ctx, key); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted preference %q", key)), nil
}

func (s *Server) handleListPreferences(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs, err := s.store.ListPreferences(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if prefs == nil {
		prefs = []store.Preference{}
	}
	return mcp.NewToolResultText(jsonText(prefs)), nil
}
