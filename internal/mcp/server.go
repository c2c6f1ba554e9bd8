package mcpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"floorplan/internal/domain"
	"floorplan/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the floor plan editor.
// It exposes tools, resources, and prompts so AI agents can lay out plans.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue

	// Services (injected from app layer)
	plans    *service.PlanService
	shapes   *service.ShapeService
	editor   *service.EditorService
	projects *service.ProjectService
	library  *service.LibraryService

	// Active plan context (set by set_active_plan tool)
	activePlanID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter    EventEmitter
	Plans      *service.PlanService
	Shapes     *service.ShapeService
	Editor     *service.EditorService
	Projects   *service.ProjectService
	Library    *service.LibraryService
	ApprovalDB *sql.DB // When set, use SQLite-based approval (standalone mode)
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}
	s := &Server{
		emitter:  deps.Emitter,
		approval: approval,
		plans:    deps.Plans,
		shapes:   deps.Shapes,
		editor:   deps.Editor,
		projects: deps.Projects,
		library:  deps.Library,
	}

	s.mcp = server.NewMCPServer(
		"floorplan-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPlanTools()
	s.registerShapeTools()
	s.registerLayoutTools()
	s.registerHistoryTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// emitShapesChanged notifies the frontend that shapes have changed on a plan.
func (s *Server) emitShapesChanged(ctx context.Context, planID string) {
	s.emitter.Emit(ctx, "mcp:shapes-changed", map[string]string{"planId": planID})
}

// commitEdit records an undoable history entry after a completed tool
// mutation. Plans the user never opened have no editing session; the edit
// is still persisted, it is just not undoable.
func (s *Server) commitEdit(ctx context.Context, planID, label string) {
	if s.editor == nil {
		return
	}
	_ = s.editor.Commit(ctx, planID, label, "")
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolvePlanID returns the planId from tool args or falls back to activePlanID.
func (s *Server) resolvePlanID(args map[string]any) (string, error) {
	if pid, ok := args["planId"].(string); ok && pid != "" {
		return pid, nil
	}
	if s.activePlanID != "" {
		return s.activePlanID, nil
	}
	return "", fmt.Errorf("no planId provided and no active plan set (use set_active_plan first)")
}

// getShapeForTool retrieves a shape and validates it exists.
func (s *Server) getShapeForTool(args map[string]any) (*domain.Shape, error) {
	shapeID, ok := args["shapeId"].(string)
	if !ok || shapeID == "" {
		return nil, fmt.Errorf("shapeId is required")
	}
	return s.shapes.GetShape(shapeID)
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func getBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func boolPtr(v bool) *bool { return &v }
