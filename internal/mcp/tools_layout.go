package mcpserver

import (
	"context"
	"fmt"

	"floorplan/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLayoutTools() {
	// ── align_shapes ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("align_shapes",
		mcp.WithDescription("Align shapes to the first alignable member of the selection. Alignments: top, bottom, left, right, centerH, centerV."),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithString("shapeIds",
			mcp.Description("Comma-separated shape IDs; the first one is the alignment reference"),
			mcp.Required(),
		),
		mcp.WithString("alignment",
			mcp.Description("One of: top, bottom, left, right, centerH, centerV"),
			mcp.Required(),
		),
	), s.handleAlignShapes)

	// ── measure_shapes ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("measure_shapes",
		mcp.WithDescription("Measure the edge-to-edge gap between two shapes. Reports horizontal and vertical gaps and classifies the pair: overlapping, horizontalOnly, verticalOnly, or diagonal."),
		mcp.WithString("shapeIdA", mcp.Description("First shape ID"), mcp.Required()),
		mcp.WithString("shapeIdB", mcp.Description("Second shape ID"), mcp.Required()),
	), s.handleMeasureShapes)

	// ── check_placement ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("check_placement",
		mcp.WithDescription("Check whether a shape of the given kind and properties fits at a candidate position. Returns a suggested (clamped) position when it does not."),
		mcp.WithString("planId", mcp.Description("Plan ID (defaults to active plan)")),
		mcp.WithString("kind", mcp.Description("Shape kind"), mcp.Required()),
		mcp.WithString("props", mcp.Description("Kind-specific properties as JSON"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Candidate center X in mm"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Candidate center Y in mm"), mcp.Required()),
	), s.handleCheckPlacement)

	// ── resolve_annotation ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resolve_annotation",
		mcp.WithDescription("Compute the render geometry of a dimension annotation: nearest corner pair and measured gaps. Reports when either referenced shape is gone."),
		mcp.WithString("shapeId", mcp.Description("Annotation shape ID"), mcp.Required()),
	), s.handleResolveAnnotation)
}

func (s *Server) handleAlignShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	ids := splitIDs(req.GetString("shapeIds", ""))
	if len(ids) < 2 {
		return nil, fmt.Errorf("at least two shapeIds are required")
	}
	alignment := req.GetString("alignment", "")
	if alignment == "" {
		return nil, fmt.Errorf("alignment is required")
	}

	moved, err := s.shapes.AlignShapes(ctx, planID, ids, alignment)
	if err != nil {
		return nil, fmt.Errorf("align shapes: %w", err)
	}

	s.commitEdit(ctx, planID, "align "+alignment)
	s.emitShapesChanged(ctx, planID)
	return textResult(fmt.Sprintf("Aligned %d shapes (%s)", len(moved), alignment)), nil
}

func (s *Server) handleMeasureShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idA := req.GetString("shapeIdA", "")
	idB := req.GetString("shapeIdB", "")
	if idA == "" || idB == "" {
		return nil, fmt.Errorf("shapeIdA and shapeIdB are required")
	}

	measure, err := s.shapes.MeasureShapes(idA, idB)
	if err != nil {
		return nil, fmt.Errorf("measure shapes: %w", err)
	}
	return jsonResult(measure)
}

func (s *Server) handleCheckPlacement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	kind := req.GetString("kind", "")
	props := req.GetString("props", "")
	if kind == "" || props == "" {
		return nil, fmt.Errorf("kind and props are required")
	}
	pos := domain.Position{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}

	check, err := s.shapes.CheckPlacement(planID, kind, props, pos)
	if err != nil {
		return nil, fmt.Errorf("check placement: %w", err)
	}
	return jsonResult(check)
}

func (s *Server) handleResolveAnnotation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shapeID := req.GetString("shapeId", "")
	if shapeID == "" {
		return nil, fmt.Errorf("shapeId is required")
	}

	geo, ok, err := s.shapes.ResolveAnnotation(shapeID)
	if err != nil {
		return nil, fmt.Errorf("resolve annotation: %w", err)
	}
	if !ok {
		return textResult("Annotation references a deleted shape; nothing to render"), nil
	}
	return jsonResult(geo)
}
