package repositories

import (
	"context"

	"sortd/internal/domain/models"
)

// SettingsRepository stores the single pass-through settings document.
type SettingsRepository interface {
	// Get retrieves the stored settings values; nil when none exist yet
	Get(ctx context.Context) (models.JSONMap, error)

	// Upsert creates or replaces the stored settings values
	Upsert(ctx context.Context, values models.JSONMap) error
}
