package service

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
	"sortd/internal/domain/services"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultSettingsYAML []byte

type settingsService struct {
	settingsRepo repositories.SettingsRepository
	defaults     models.Settings
	logger       *slog.Logger
}

// NewSettingsService creates a new settings service. The embedded defaults
// are parsed once at construction; a malformed defaults document is a
// build-time mistake and reported as an error here.
func NewSettingsService(settingsRepo repositories.SettingsRepository, logger *slog.Logger) (services.SettingsService, error) {
	var defaults models.JSONMap
	if err := yaml.Unmarshal(defaultSettingsYAML, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse default settings: %w", err)
	}

	return &settingsService{
		settingsRepo: settingsRepo,
		defaults:     models.Settings{Values: defaults},
		logger:       logger,
	}, nil
}

// Get returns defaults merged with stored values
func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	merged := s.defaults.Merge(stored)
	return &merged, nil
}

// Update overlays the given values onto the stored document and returns the
// merged result. Only the overlay is persisted; defaults stay embedded.
func (s *settingsService) Update(ctx context.Context, values models.JSONMap) (*models.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	overlay := models.Settings{Values: stored}.Merge(values)
	if err := s.settingsRepo.Upsert(ctx, overlay.Values); err != nil {
		return nil, err
	}

	s.logger.Info("settings updated", "keys", len(values))

	merged := s.defaults.Merge(overlay.Values)
	return &merged, nil
}
