package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	// ── undo ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last committed edit on a plan"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
	), s.handleUndo)

	// ── redo ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Reapply the most recently undone edit on a plan"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
	), s.handleRedo)

	// ── history_state ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("history_state",
		mcp.WithDescription("Get undo/redo availability and timeline depths for a plan"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
	), s.handleHistoryState)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.editor.Undo(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	s.emitShapesChanged(ctx, planID)
	return textResult(fmt.Sprintf("Undone; plan now has %d shapes", len(state.Shapes))), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.editor.Redo(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	s.emitShapesChanged(ctx, planID)
	return textResult(fmt.Sprintf("Redone; plan now has %d shapes", len(state.Shapes))), nil
}

func (s *Server) handleHistoryState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.editor.History(planID)
	if err != nil {
		return nil, fmt.Errorf("history state: %w", err)
	}
	return jsonResult(state)
}
