package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── floorplan://venues ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"floorplan://venues",
		"All Venues",
		mcp.WithMIMEType("application/json"),
	), s.handleVenuesResource)

	// ── floorplan://plan/{planId}/shapes ───────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"floorplan://plan/{planId}/shapes",
			"Shapes on a Plan",
		),
		s.handlePlanShapesResource,
	)
}

func (s *Server) handleVenuesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	venues, err := s.plans.ListVenues()
	if err != nil {
		return nil, err
	}

	type venueSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	var summaries []venueSummary
	for _, v := range venues {
		summaries = append(summaries, venueSummary{ID: v.ID, Name: v.Name})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "floorplan://venues",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePlanShapesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	planID := extractPlanIDFromURI(uri)
	if planID == "" {
		return nil, fmt.Errorf("could not extract planId from URI: %s", uri)
	}

	shapes, err := s.shapes.ListShapes(planID)
	if err != nil {
		return nil, err
	}

	summaries := make([]shapeSummary, len(shapes))
	for i, sh := range shapes {
		summaries[i] = summarizeShape(sh)
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractPlanIDFromURI extracts the plan ID from "floorplan://plan/{id}/shapes"
func extractPlanIDFromURI(uri string) string {
	const prefix = "floorplan://plan/"
	const suffix = "/shapes"
	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
