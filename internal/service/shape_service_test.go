package service_test

import (
	"context"
	"testing"

	"floorplan/internal/service"
)

// ─────────────────────────────────────────────────────────────
// ShapeService unit tests
// Only tests paths that don't require a real SQLite store.
// ─────────────────────────────────────────────────────────────

func TestShapeService_NewShapeService(t *testing.T) {
	emitter := &service.MockEmitter{}
	svc := service.NewShapeService(nil, nil, emitter)
	if svc == nil {
		t.Fatal("expected non-nil ShapeService")
	}
}

func TestShapeService_MethodSignatures(t *testing.T) {
	// Compile-time check that the engine-facing surface exists.
	emitter := &service.MockEmitter{}
	svc := service.NewShapeService(nil, nil, emitter)
	_ = svc.CreateShape
	_ = svc.CheckPlacement
	_ = svc.MoveShape
	_ = svc.UpdateShapeProps
	_ = svc.RotateShape
	_ = svc.DuplicateShape
	_ = svc.BatchMove
	_ = svc.SwapShapes
	_ = svc.AlignShapes
	_ = svc.MeasureShapes
	_ = svc.CreateAnnotation
	_ = svc.ResolveAnnotation
	_ = func() error { return svc.DeleteShape(context.Background(), "shape-1") }
}
