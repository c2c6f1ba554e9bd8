package app

import (
	"floorplan/internal/domain"
	"floorplan/internal/project"
	"floorplan/internal/remote"
	"floorplan/internal/service"
)

// ============================================================
// Shared plan libraries
// ============================================================

func (a *App) ListLibraryConnections() ([]domain.LibraryConnection, error) {
	return a.library.ListConnections()
}

func (a *App) CreateLibraryConnection(input service.CreateLibraryInput) (*domain.LibraryConnection, error) {
	return a.library.CreateConnection(input)
}

func (a *App) UpdateLibraryConnection(id string, input service.CreateLibraryInput) error {
	return a.library.UpdateConnection(id, input)
}

func (a *App) DeleteLibraryConnection(id string) error {
	return a.library.DeleteConnection(id)
}

func (a *App) TestLibraryConnection(id string) error {
	return a.library.TestConnection(a.ctx, id)
}

// ListPublishedPlans returns the plans available in a shared library.
func (a *App) ListPublishedPlans(connectionID string) ([]remote.PlanSummary, error) {
	return a.library.ListPublished(a.ctx, connectionID)
}

// PublishPlan uploads a plan to a shared library.
func (a *App) PublishPlan(connectionID, planID string, meta project.Metadata) error {
	return a.library.Publish(a.ctx, connectionID, planID, meta)
}

// FetchPublishedPlan downloads a published plan into a local plan.
func (a *App) FetchPublishedPlan(connectionID, remoteID, planID string) error {
	return a.library.Fetch(a.ctx, connectionID, remoteID, planID)
}

// DeletePublishedPlan removes a plan from a shared library.
func (a *App) DeletePublishedPlan(connectionID, remoteID string) error {
	return a.library.DeletePublished(a.ctx, connectionID, remoteID)
}
