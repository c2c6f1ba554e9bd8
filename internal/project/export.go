package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"floorplan/internal/domain"
	"floorplan/internal/layout"
)

// Build assembles an export document for one plan. svgData may be empty
// when the plan has no background diagram.
func Build(plan *domain.Plan, shapes []domain.Shape, svgData string, meta Metadata) *File {
	if meta.Name == "" {
		meta.Name = plan.Name
	}
	f := &File{
		Version:       FormatVersion,
		Timestamp:     time.Now().UTC(),
		Metadata:      meta,
		DiagramWidth:  plan.DiagramWidth,
		DiagramHeight: plan.DiagramHeight,
		Shapes:        domain.CloneShapes(shapes),
		Viewport: ViewportState{
			PanX: plan.ViewportX,
			PanY: plan.ViewportY,
			Zoom: plan.ViewportZoom,
		},
		UI: UIState{
			GridSize:    plan.GridSize,
			SnapEnabled: plan.SnapEnabled,
			Boundary:    plan.Boundary,
			GroupClamp:  layout.PolicyOrDefault(plan.GroupClamp),
		},
	}
	if f.UI.GridSize <= 0 {
		f.UI.GridSize = layout.DefaultGridSize
	}
	if svgData != "" {
		f.SVGData = &svgData
	}
	f.Checksum = ChecksumShapes(f.Shapes)
	return f
}

// Encode renders a project file as indented JSON.
func Encode(f *File) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return data, nil
}

// WriteFile exports a project document to disk.
func WriteFile(path string, f *File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}
