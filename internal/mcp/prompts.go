package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("seat_event",
		mcp.WithPromptDescription("Guide through laying out tables for an event on the active plan"),
		mcp.WithArgument("guestCount",
			mcp.ArgumentDescription("Number of guests to seat"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("tableStyle",
			mcp.ArgumentDescription("Table style: round or rectangular"),
			mcp.RequiredArgument(),
		),
	), s.handleSeatEventPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("check_clearances",
		mcp.WithPromptDescription("Audit a plan for shapes placed too close together"),
		mcp.WithArgument("minGap",
			mcp.ArgumentDescription("Minimum acceptable edge-to-edge gap in mm"),
			mcp.RequiredArgument(),
		),
	), s.handleCheckClearancesPrompt)
}

func (s *Server) handleSeatEventPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	guestCount := req.Params.Arguments["guestCount"]
	tableStyle := req.Params.Arguments["tableStyle"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Seat %s guests at %s tables", guestCount, tableStyle),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Lay out tables for %s guests using %s tables on the active plan. Follow these steps:

1. Use get_plan_state to read the boundary, grid size, and existing shapes
2. Work out how many tables you need (round tables seat 8, rectangular tables seat 10)
3. Create each table with create_shape, letting auto-placement pick free slots, or pass explicit positions for a deliberate arrangement
4. Use measure_shapes between neighboring tables to confirm serving clearance (at least 900 mm)
5. Use align_shapes to square up each row

Every table must land inside the boundary; the engine clamps positions that do not fit, so re-read positions from the tool results rather than assuming your requested coordinates.`, guestCount, tableStyle),
				},
			},
		},
	}, nil
}

func (s *Server) handleCheckClearancesPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	minGap := req.Params.Arguments["minGap"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Check clearances of at least %s mm", minGap),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Audit the active plan for clearance problems. Follow these steps:

1. Use list_shapes to get every shape with its extent
2. For each pair of nearby shapes, use measure_shapes and note pairs classified as overlapping or with a gap below %s mm
3. For each problem pair, propose a fix: move one shape with move_shape (check the destination first with check_placement), or swap differently sized shapes with swap_shapes
4. Add a dimension annotation (create_annotation) on any pair the venue staff should double-check on site

Report the pairs you fixed and the pairs that cannot be fixed without removing a shape.`, minGap),
				},
			},
		},
	}, nil
}
