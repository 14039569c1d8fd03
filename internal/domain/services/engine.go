package services

import (
	"context"

	"sortd/internal/domain/models"
	"sortd/internal/match"
)

// Engine is the command surface of the external automation engine. The
// core never moves files itself; everything that touches the filesystem
// goes through here. A host wires either the in-process adapter
// (internal/engine) or a transport to a separate engine process.
type Engine interface {
	// Status reads the engine's process-wide snapshot
	Status(ctx context.Context) (*models.EngineStatus, error)

	// SetPaused pauses or resumes the automation loop
	SetPaused(ctx context.Context, paused bool) error

	// Restore moves currentPath back to originalPath for an undo. It
	// returns a conflict error when the on-disk state no longer matches
	// what the undo entry expects.
	Restore(ctx context.Context, currentPath, originalPath string) error

	// Snapshot stats a single file into evaluator facts
	Snapshot(ctx context.Context, filePath string) (*match.FileFacts, error)

	// Walk lists the files of a watched directory, honoring scanDepth
	// (0 = this directory only, -1 = unlimited), as evaluator facts
	Walk(ctx context.Context, folderPath string, scanDepth int) ([]match.FileFacts, error)
}

// EngineService exposes the engine status/pause contract plus dry-run
// previews to the UI.
type EngineService interface {
	// Status reads the engine snapshot
	Status(ctx context.Context) (*models.EngineStatus, error)

	// SetPaused pauses or resumes the engine
	SetPaused(ctx context.Context, paused bool) (*models.EngineStatus, error)

	// TogglePaused flips the paused flag
	TogglePaused(ctx context.Context) (*models.EngineStatus, error)

	// PreviewRule returns the paths under the rule's folder that currently
	// match the rule. Idempotent and side-effect-free.
	PreviewRule(ctx context.Context, ruleID string) ([]string, error)

	// PreviewFile reports whether a single file currently matches the rule
	PreviewFile(ctx context.Context, ruleID, filePath string) (bool, error)
}
