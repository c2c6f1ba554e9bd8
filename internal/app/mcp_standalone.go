package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "floorplan/internal/mcp"
	"floorplan/internal/secret"
	"floorplan/internal/service"
	"floorplan/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "floorplan")
	dbPath := filepath.Join(dataDir, "floorplan.db")

	db, err := storage.New(dbPath, dataDir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	planStore := storage.NewPlanStore(db)
	shapeStore := storage.NewShapeStore(db)
	commitLog := storage.NewCommitLog(db)
	libStore := storage.NewLibraryStore(db)
	secrets := secret.NewKeychainStore()
	emitter := noopEmitter{}

	plansSvc := service.NewPlanService(planStore, shapeStore, dataDir, emitter)
	shapesSvc := service.NewShapeService(shapeStore, planStore, emitter)
	editorSvc := service.NewEditorService(shapeStore, planStore, commitLog, emitter)
	projectsSvc := service.NewProjectService(planStore, shapeStore, editorSvc, emitter)
	librarySvc := service.NewLibraryService(libStore, secrets, projectsSvc)
	defer librarySvc.CloseAll()

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    emitter,
		Plans:      plansSvc,
		Shapes:     shapesSvc,
		Editor:     editorSvc,
		Projects:   projectsSvc,
		Library:    librarySvc,
		ApprovalDB: db.Conn(), // Enable SQLite-based approval IPC
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
