package mcpserver

import (
	"context"
	"fmt"

	"floorplan/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPlanTools() {
	// ── list_venues ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_venues",
		mcp.WithDescription("List all venues in the workspace"),
	), s.handleListVenues)

	// ── list_plans ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_plans",
		mcp.WithDescription("List all floor plans of a venue"),
		mcp.WithString("venueId",
			mcp.Description("ID of the venue"),
			mcp.Required(),
		),
	), s.handleListPlans)

	// ── create_plan ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_plan",
		mcp.WithDescription("Create a new floor plan in a venue"),
		mcp.WithString("venueId",
			mcp.Description("ID of the venue"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new plan"),
			mcp.Required(),
		),
	), s.handleCreatePlan)

	// ── set_active_plan ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_plan",
		mcp.WithDescription("Set the active plan for subsequent tool calls. Tools that accept planId will default to this."),
		mcp.WithString("planId",
			mcp.Description("ID of the plan to make active"),
			mcp.Required(),
		),
	), s.handleSetActivePlan)

	// ── get_plan_state ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_plan_state",
		mcp.WithDescription("Get a plan with all its shapes, viewport and editor settings"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
	), s.handleGetPlanState)

	// ── set_boundary ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_boundary",
		mcp.WithDescription("Set the placement boundary of a plan. Shapes are kept inside this region. Omit all coordinates to clear the boundary."),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithNumber("x", mcp.Description("Boundary origin X in mm")),
		mcp.WithNumber("y", mcp.Description("Boundary origin Y in mm")),
		mcp.WithNumber("width", mcp.Description("Boundary width in mm")),
		mcp.WithNumber("height", mcp.Description("Boundary height in mm")),
	), s.handleSetBoundary)

	// ── update_editor_settings ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_editor_settings",
		mcp.WithDescription("Set grid pitch, snap-to-grid and group clamp policy for a plan"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithNumber("gridSize", mcp.Description("Grid pitch in mm"), mcp.Required()),
		mcp.WithBoolean("snapEnabled", mcp.Description("Whether positions snap to the grid")),
		mcp.WithString("groupClamp", mcp.Description("Group drag clamping: 'leadOnly' or 'allMembers' (omit to keep current)")),
	), s.handleUpdateEditorSettings)
}

func (s *Server) handleListVenues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	venues, err := s.plans.ListVenues()
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return jsonResult(venues)
}

func (s *Server) handleListPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	venueID := req.GetString("venueId", "")
	if venueID == "" {
		return nil, fmt.Errorf("venueId is required")
	}
	plans, err := s.plans.ListPlans(venueID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return jsonResult(plans)
}

func (s *Server) handleCreatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	venueID := req.GetString("venueId", "")
	name := req.GetString("name", "")
	if venueID == "" || name == "" {
		return nil, fmt.Errorf("venueId and name are required")
	}
	plan, err := s.plans.CreatePlan(venueID, name)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	// Auto-set as active plan
	s.activePlanID = plan.ID
	if s.editor != nil {
		_ = s.editor.OpenPlan(plan.ID)
	}
	return jsonResult(plan)
}

func (s *Server) handleSetActivePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID := req.GetString("planId", "")
	if planID == "" {
		return nil, fmt.Errorf("planId is required")
	}
	if _, err := s.plans.GetPlan(planID); err != nil {
		return nil, fmt.Errorf("set active plan: %w", err)
	}
	s.activePlanID = planID
	if s.editor != nil {
		if err := s.editor.OpenPlan(planID); err != nil {
			return nil, fmt.Errorf("open editing session: %w", err)
		}
	}
	return textResult(fmt.Sprintf("Active plan set to %s", planID)), nil
}

func (s *Server) handleGetPlanState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.plans.GetPlanState(planID)
	if err != nil {
		return nil, fmt.Errorf("get plan state: %w", err)
	}
	return jsonResult(state)
}

func (s *Server) handleSetBoundary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}

	var area *domain.BoundaryArea
	w := getFloat(args, "width", 0)
	h := getFloat(args, "height", 0)
	if w > 0 && h > 0 {
		area = &domain.BoundaryArea{
			X:      getFloat(args, "x", 0),
			Y:      getFloat(args, "y", 0),
			Width:  w,
			Height: h,
		}
	}

	if err := s.plans.SetBoundary(ctx, planID, area); err != nil {
		return nil, fmt.Errorf("set boundary: %w", err)
	}
	if area == nil {
		return textResult("Boundary cleared"), nil
	}
	return textResult(fmt.Sprintf("Boundary set to (%.0f, %.0f) %.0f × %.0f mm",
		area.X, area.Y, area.Width, area.Height)), nil
}

func (s *Server) handleUpdateEditorSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	gridSize := getFloat(args, "gridSize", 0)
	snap := getBool(args, "snapEnabled", true)
	groupClamp := req.GetString("groupClamp", "")

	if err := s.plans.UpdateEditorSettings(planID, gridSize, snap, groupClamp); err != nil {
		return nil, fmt.Errorf("update editor settings: %w", err)
	}
	return textResult(fmt.Sprintf("Grid %.0f mm, snap %v", gridSize, snap)), nil
}
