package services

import (
	"context"

	"sortd/internal/domain/models"
)

// FolderService handles watched-folder business logic
type FolderService interface {
	// ListFolders retrieves all watched folders with rule counts
	ListFolders(ctx context.Context) ([]models.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id string) (*models.Folder, error)

	// AddFolder registers a directory for watching
	AddFolder(ctx context.Context, req *models.CreateFolderRequest) (*models.Folder, error)

	// UpdateFolder renames, moves or changes the settings of a folder
	UpdateFolder(ctx context.Context, id string, req *models.UpdateFolderRequest) (*models.Folder, error)

	// ToggleFolder flips only the enabled flag
	ToggleFolder(ctx context.Context, id string, enabled bool) error

	// RemoveFolder deletes a folder and, by cascade, its rules
	RemoveFolder(ctx context.Context, id string) error
}
