package mcpserver

import (
	"context"
	"fmt"

	"floorplan/internal/domain"
	"floorplan/internal/geometry"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerShapeTools() {
	// ── create_shape ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_shape",
		mcp.WithDescription("Create a shape on a plan. Kinds: rectangle, circle, image, textBox. Omit x/y to auto-place in the first free slot. props is the kind-specific JSON, e.g. {\"width\":1600,\"height\":800} for a rectangle or {\"radius\":750} for a circle."),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithString("kind",
			mcp.Description("Shape kind: rectangle, circle, image, or textBox"),
			mcp.Required(),
		),
		mcp.WithString("props",
			mcp.Description("Kind-specific properties as JSON"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("Center X in mm (omit for auto-placement)")),
		mcp.WithNumber("y", mcp.Description("Center Y in mm (omit for auto-placement)")),
	), s.handleCreateShape)

	// ── list_shapes ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_shapes",
		mcp.WithDescription("List all shapes on a plan with their bounding extents"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
	), s.handleListShapes)

	// ── get_shape ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_shape",
		mcp.WithDescription("Get a single shape with full properties"),
		mcp.WithString("shapeId", mcp.Description("Shape ID"), mcp.Required()),
	), s.handleGetShape)

	// ── move_shape ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_shape",
		mcp.WithDescription("Move a shape to a new center position. Snap and boundary rules apply; the final position may differ from the requested one."),
		mcp.WithString("shapeId", mcp.Description("Shape ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New center X in mm"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New center Y in mm"), mcp.Required()),
	), s.handleMoveShape)

	// ── update_shape ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_shape",
		mcp.WithDescription("Replace a shape's kind-specific properties (resize, retext). The shape is re-clamped against the boundary."),
		mcp.WithString("shapeId", mcp.Description("Shape ID"), mcp.Required()),
		mcp.WithString("props", mcp.Description("New properties as JSON"), mcp.Required()),
	), s.handleUpdateShape)

	// ── rotate_shape ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rotate_shape",
		mcp.WithDescription("Set the rotation of a rectangle or image shape in degrees"),
		mcp.WithString("shapeId", mcp.Description("Shape ID"), mcp.Required()),
		mcp.WithNumber("degrees", mcp.Description("Rotation in degrees"), mcp.Required()),
	), s.handleRotateShape)

	// ── duplicate_shape ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_shape",
		mcp.WithDescription("Duplicate a shape with a small diagonal offset"),
		mcp.WithString("shapeId", mcp.Description("Shape ID to duplicate"), mcp.Required()),
	), s.handleDuplicateShape)

	// ── delete_shape ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_shape",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a shape. Requires user approval."),
		mcp.WithString("shapeId", mcp.Description("Shape ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteShape)

	// ── batch_move_shapes ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("batch_move_shapes",
		mcp.WithDescription("Translate several shapes by a common delta. Each shape is clamped independently."),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithString("shapeIds",
			mcp.Description("Comma-separated shape IDs to move"),
			mcp.Required(),
		),
		mcp.WithNumber("dx", mcp.Description("Delta X in mm"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Delta Y in mm"), mcp.Required()),
	), s.handleBatchMoveShapes)

	// ── swap_shapes ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("swap_shapes",
		mcp.WithDescription("Exchange the positions of two shapes"),
		mcp.WithString("shapeIdA", mcp.Description("First shape ID"), mcp.Required()),
		mcp.WithString("shapeIdB", mcp.Description("Second shape ID"), mcp.Required()),
	), s.handleSwapShapes)

	// ── create_annotation ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_annotation",
		mcp.WithDescription("Create a dimension annotation measuring the gap between two shapes"),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithString("firstId", mcp.Description("First measured shape ID"), mcp.Required()),
		mcp.WithString("secondId", mcp.Description("Second measured shape ID"), mcp.Required()),
	), s.handleCreateAnnotation)
}

// shapeSummary is the compact listing form returned by list_shapes and
// the shapes resource: position plus the axis-aligned extent the
// constraint engine works with.
type shapeSummary struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func summarizeShape(sh domain.Shape) shapeSummary {
	circ := geometry.Circumscribe(sh)
	return shapeSummary{
		ID:     sh.ID,
		Kind:   string(sh.Kind),
		X:      sh.Position.X,
		Y:      sh.Position.Y,
		Width:  circ.Width,
		Height: circ.Height,
	}
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCreateShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	kind, _ := args["kind"].(string)
	props, _ := args["props"].(string)
	if kind == "" || props == "" {
		return nil, fmt.Errorf("kind and props are required")
	}

	var pos *domain.Position
	if _, hasX := args["x"]; hasX {
		pos = &domain.Position{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}
	}

	shape, err := s.shapes.CreateShape(ctx, planID, kind, props, pos)
	if err != nil {
		return nil, fmt.Errorf("create shape: %w", err)
	}

	s.commitEdit(ctx, planID, "create "+kind)
	s.emitShapesChanged(ctx, planID)
	return jsonResult(shape)
}

func (s *Server) handleListShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	shapes, err := s.shapes.ListShapes(planID)
	if err != nil {
		return nil, fmt.Errorf("list shapes: %w", err)
	}

	summaries := make([]shapeSummary, len(shapes))
	for i, sh := range shapes {
		summaries[i] = summarizeShape(sh)
	}
	return jsonResult(summaries)
}

func (s *Server) handleGetShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shape, err := s.getShapeForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	return jsonResult(shape)
}

func (s *Server) handleMoveShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	shape, err := s.getShapeForTool(args)
	if err != nil {
		return nil, err
	}

	x := getFloat(args, "x", shape.Position.X)
	y := getFloat(args, "y", shape.Position.Y)

	moved, err := s.shapes.MoveShape(ctx, shape.ID, x, y)
	if err != nil {
		return nil, fmt.Errorf("move shape: %w", err)
	}

	s.commitEdit(ctx, moved.PlanID, "move shape")
	s.emitShapesChanged(ctx, moved.PlanID)
	return textResult(fmt.Sprintf("Shape %s moved to (%.0f, %.0f)",
		moved.ID, moved.Position.X, moved.Position.Y)), nil
}

func (s *Server) handleUpdateShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	shape, err := s.getShapeForTool(args)
	if err != nil {
		return nil, err
	}
	props, _ := args["props"].(string)
	if props == "" {
		return nil, fmt.Errorf("props is required")
	}

	updated, err := s.shapes.UpdateShapeProps(ctx, shape.ID, props)
	if err != nil {
		return nil, fmt.Errorf("update shape: %w", err)
	}

	s.commitEdit(ctx, updated.PlanID, "edit "+string(updated.Kind))
	s.emitShapesChanged(ctx, updated.PlanID)
	return jsonResult(updated)
}

func (s *Server) handleRotateShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	shape, err := s.getShapeForTool(args)
	if err != nil {
		return nil, err
	}
	degrees := getFloat(args, "degrees", 0)

	rotated, err := s.shapes.RotateShape(ctx, shape.ID, degrees)
	if err != nil {
		return nil, fmt.Errorf("rotate shape: %w", err)
	}

	s.commitEdit(ctx, rotated.PlanID, "rotate shape")
	s.emitShapesChanged(ctx, rotated.PlanID)
	return textResult(fmt.Sprintf("Shape %s rotated to %.1f°", rotated.ID, degrees)), nil
}

func (s *Server) handleDuplicateShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shape, err := s.getShapeForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}

	dup, err := s.shapes.DuplicateShape(ctx, shape.ID)
	if err != nil {
		return nil, fmt.Errorf("duplicate shape: %w", err)
	}

	s.commitEdit(ctx, dup.PlanID, "duplicate shape")
	s.emitShapesChanged(ctx, dup.PlanID)
	return jsonResult(dup)
}

func (s *Server) handleDeleteShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	shape, err := s.getShapeForTool(args)
	if err != nil {
		return nil, err
	}

	// Require approval (with metadata for frontend highlight)
	meta := fmt.Sprintf(`{"shapeIds":["%s"]}`, shape.ID)
	approved, err := s.approval.Request("delete_shape",
		fmt.Sprintf("Delete %s shape %s", shape.Kind, shape.ID), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.shapes.DeleteShape(ctx, shape.ID); err != nil {
		return nil, fmt.Errorf("delete shape: %w", err)
	}

	s.commitEdit(ctx, shape.PlanID, "delete "+string(shape.Kind))
	s.emitShapesChanged(ctx, shape.PlanID)
	return textResult(fmt.Sprintf("Shape %s deleted", shape.ID)), nil
}

func (s *Server) handleBatchMoveShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	ids := splitIDs(req.GetString("shapeIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("shapeIds is required")
	}
	dx := getFloat(args, "dx", 0)
	dy := getFloat(args, "dy", 0)

	moved, err := s.shapes.BatchMove(ctx, planID, ids, dx, dy)
	if err != nil {
		return nil, fmt.Errorf("batch move: %w", err)
	}

	s.commitEdit(ctx, planID, fmt.Sprintf("move %d shapes", len(moved)))
	s.emitShapesChanged(ctx, planID)
	return textResult(fmt.Sprintf("Moved %d shapes by (%.0f, %.0f)", len(moved), dx, dy)), nil
}

func (s *Server) handleSwapShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idA := req.GetString("shapeIdA", "")
	idB := req.GetString("shapeIdB", "")
	if idA == "" || idB == "" {
		return nil, fmt.Errorf("shapeIdA and shapeIdB are required")
	}

	a, err := s.shapes.GetShape(idA)
	if err != nil {
		return nil, fmt.Errorf("get shape %s: %w", idA, err)
	}
	if err := s.shapes.SwapShapes(ctx, idA, idB); err != nil {
		return nil, fmt.Errorf("swap shapes: %w", err)
	}

	s.commitEdit(ctx, a.PlanID, "swap shapes")
	s.emitShapesChanged(ctx, a.PlanID)
	return textResult(fmt.Sprintf("Swapped %s and %s", idA, idB)), nil
}

func (s *Server) handleCreateAnnotation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	firstID := req.GetString("firstId", "")
	secondID := req.GetString("secondId", "")
	if firstID == "" || secondID == "" {
		return nil, fmt.Errorf("firstId and secondId are required")
	}

	ann, err := s.shapes.CreateAnnotation(ctx, planID, firstID, secondID)
	if err != nil {
		return nil, fmt.Errorf("create annotation: %w", err)
	}

	s.commitEdit(ctx, planID, "create annotation")
	s.emitShapesChanged(ctx, planID)
	return jsonResult(ann)
}
