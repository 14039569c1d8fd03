package repositories

import (
	"context"

	"sortd/internal/domain/models"
)

// FolderRepository defines data access operations for watched folders
type FolderRepository interface {
	// Create creates a new watched folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// List retrieves all watched folders with their rule counts
	List(ctx context.Context) ([]models.Folder, error)

	// Update updates a folder's path, name, enabled flag and scan depth
	Update(ctx context.Context, folder *models.Folder) error

	// SetEnabled flips only the enabled flag
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// Delete removes a folder; its rules cascade
	Delete(ctx context.Context, id string) error
}
