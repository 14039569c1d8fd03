package services

import (
	"context"

	"sortd/internal/domain/models"
)

// SettingsService serves the pass-through settings document. Defaults come
// from an embedded document; stored values overlay them.
type SettingsService interface {
	// Get returns defaults merged with stored values
	Get(ctx context.Context) (*models.Settings, error)

	// Update overlays the given values onto the stored document and
	// returns the merged result. A nil value removes its key.
	Update(ctx context.Context, values models.JSONMap) (*models.Settings, error)
}
