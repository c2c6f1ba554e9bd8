package app

import (
	"floorplan/internal/project"
)

// ============================================================
// Project files — export, import, linked sync
// ============================================================

// ExportPlan writes a plan to a self-contained project file.
func (a *App) ExportPlan(planID, path string, meta project.Metadata) error {
	return a.projects.Export(planID, path, meta)
}

// ImportPlan loads a project file into an existing plan, replacing its
// shapes and settings. Returns any non-fatal warnings (checksum or
// version mismatches, dangling annotation references).
func (a *App) ImportPlan(planID, path string) ([]string, error) {
	res, err := a.projects.Import(a.ctx, planID, path)
	if err != nil {
		return nil, err
	}
	return res.Warnings, nil
}

// LinkPlanFile keeps a plan synced with an external project file.
func (a *App) LinkPlanFile(planID, path string) error {
	return a.projects.LinkFile(a.ctx, planID, path)
}

// UnlinkPlanFile stops syncing a plan with its external file.
func (a *App) UnlinkPlanFile(planID string) error {
	return a.projects.UnlinkFile(a.ctx, planID)
}

// AutosavePath returns where a plan's periodic snapshot lands, for the
// crash-recovery dialog.
func (a *App) AutosavePath(planID string) string {
	return a.autosave.SnapshotPath(planID)
}
