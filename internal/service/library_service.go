package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"floorplan/internal/domain"
	"floorplan/internal/project"
	"floorplan/internal/remote"
	"floorplan/internal/secret"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Library Service — shared plan libraries
// ─────────────────────────────────────────────────────────────

// CreateLibraryInput is the service-layer DTO for creating/updating
// library connections.
type CreateLibraryInput struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

// LibraryService manages connections to shared plan libraries and the
// publish/fetch flows. Live connections are pooled per connection id.
type LibraryService struct {
	connStore *storage.LibraryStore
	secrets   secret.SecretStore
	projects  *ProjectService

	mu     sync.Mutex
	active map[string]*libEntry
}

type libEntry struct {
	library   remote.Library
	createdAt time.Time
}

// NewLibraryService creates a LibraryService.
func NewLibraryService(connStore *storage.LibraryStore, secrets secret.SecretStore, projects *ProjectService) *LibraryService {
	return &LibraryService{
		connStore: connStore,
		secrets:   secrets,
		projects:  projects,
		active:    make(map[string]*libEntry),
	}
}

// ── Connection CRUD ────────────────────────────────────────

func (s *LibraryService) ListConnections() ([]domain.LibraryConnection, error) {
	return s.connStore.ListConnections()
}

func (s *LibraryService) CreateConnection(input CreateLibraryInput) (*domain.LibraryConnection, error) {
	conn := &domain.LibraryConnection{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Driver:   domain.LibraryDriver(input.Driver),
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
	}
	if err := s.connStore.CreateConnection(conn); err != nil {
		return nil, fmt.Errorf("create library connection: %w", err)
	}
	if input.Password != "" && s.secrets != nil {
		_ = s.secrets.Set("library:"+conn.ID, []byte(input.Password))
	}
	return conn, nil
}

func (s *LibraryService) UpdateConnection(id string, input CreateLibraryInput) error {
	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return err
	}
	conn.Name = input.Name
	conn.Driver = domain.LibraryDriver(input.Driver)
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Database = input.Database
	conn.Username = input.Username
	conn.SSLMode = input.SSLMode
	if err := s.connStore.UpdateConnection(conn); err != nil {
		return err
	}
	if input.Password != "" && s.secrets != nil {
		_ = s.secrets.Set("library:"+id, []byte(input.Password))
	}
	// Invalidate the pooled connection so the next call reconnects.
	s.evict(id)
	return nil
}

func (s *LibraryService) DeleteConnection(id string) error {
	s.evict(id)
	if s.secrets != nil {
		_ = s.secrets.Delete("library:" + id)
	}
	return s.connStore.DeleteConnection(id)
}

func (s *LibraryService) evict(id string) {
	s.mu.Lock()
	if e, ok := s.active[id]; ok {
		_ = e.library.Close()
		delete(s.active, id)
	}
	s.mu.Unlock()
}

// TestConnection verifies a stored connection can be reached.
func (s *LibraryService) TestConnection(ctx context.Context, id string) error {
	lib, err := s.getOrOpen(id)
	if err != nil {
		return err
	}
	return lib.Ping(ctx)
}

func (s *LibraryService) getOrOpen(id string) (remote.Library, error) {
	s.mu.Lock()
	if e, ok := s.active[id]; ok {
		s.mu.Unlock()
		return e.library, nil
	}
	s.mu.Unlock()

	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return nil, err
	}
	password := ""
	if s.secrets != nil {
		if pw, err := s.secrets.Get("library:" + id); err == nil && pw != nil {
			password = string(pw)
		}
	}
	lib, err := remote.Open(conn, password)
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", conn.Name, err)
	}

	s.mu.Lock()
	s.active[id] = &libEntry{library: lib, createdAt: time.Now()}
	s.mu.Unlock()
	return lib, nil
}

// ── Publish / fetch ────────────────────────────────────────

// ListPublished returns the plans available in a library.
func (s *LibraryService) ListPublished(ctx context.Context, connectionID string) ([]remote.PlanSummary, error) {
	lib, err := s.getOrOpen(connectionID)
	if err != nil {
		return nil, err
	}
	return lib.List(ctx)
}

// Publish uploads a plan to a library as a project document.
func (s *LibraryService) Publish(ctx context.Context, connectionID, planID string, meta project.Metadata) error {
	lib, err := s.getOrOpen(connectionID)
	if err != nil {
		return err
	}
	doc, err := s.projects.BuildFile(planID, meta)
	if err != nil {
		return err
	}
	return lib.Publish(ctx, planID, doc)
}

// Fetch downloads a published plan into an existing local plan.
func (s *LibraryService) Fetch(ctx context.Context, connectionID, remoteID, planID string) error {
	lib, err := s.getOrOpen(connectionID)
	if err != nil {
		return err
	}
	doc, err := lib.Fetch(ctx, remoteID)
	if err != nil {
		return err
	}
	return s.projects.ImportDocument(ctx, planID, doc)
}

// DeletePublished removes a plan from a library.
func (s *LibraryService) DeletePublished(ctx context.Context, connectionID, remoteID string) error {
	lib, err := s.getOrOpen(connectionID)
	if err != nil {
		return err
	}
	return lib.Delete(ctx, remoteID)
}

// CloseAll closes every pooled connection. Called on shutdown.
func (s *LibraryService) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.active {
		_ = e.library.Close()
		delete(s.active, id)
	}
}
