package repositories

import (
	"context"

	"sortd/internal/domain/models"
)

// RuleRepository defines data access operations for rules
type RuleRepository interface {
	// ListByFolder retrieves a folder's rules ordered by position then id
	ListByFolder(ctx context.Context, folderID string) ([]models.Rule, error)

	// GetByID retrieves a rule by ID
	GetByID(ctx context.Context, id string) (*models.Rule, error)

	// CountByFolder returns the number of rules in a folder
	CountByFolder(ctx context.Context, folderID string) (int, error)

	// Create creates a rule; the caller assigns Position
	Create(ctx context.Context, rule *models.Rule) error

	// Update replaces everything but position and timestamps of creation
	Update(ctx context.Context, rule *models.Rule) error

	// SetEnabled flips only the enabled flag
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// Delete removes a rule without compacting the remaining positions
	Delete(ctx context.Context, id string) error

	// UpdatePositions reassigns positions for the given rule ids. Callers
	// wrap this in a transaction so a reorder is a single atomic rewrite.
	UpdatePositions(ctx context.Context, folderID string, positions map[string]int) error
}
