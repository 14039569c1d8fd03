package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"sortd/internal/config"
	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
	"sortd/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	ids        services.IDGenerator
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	ids services.IDGenerator,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		ids:        ids,
		logger:     logger,
	}
}

// ListFolders retrieves all watched folders with rule counts
func (s *folderService) ListFolders(ctx context.Context) ([]models.Folder, error) {
	return s.folderRepo.List(ctx)
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

// AddFolder registers a directory for watching
func (s *folderService) AddFolder(ctx context.Context, req *models.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = filepath.Base(req.Path)
	}

	scanDepth := 0
	if req.ScanDepth != nil {
		scanDepth = *req.ScanDepth
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        s.ids.New(),
		Path:      filepath.Clean(req.Path),
		Name:      name,
		Enabled:   true,
		ScanDepth: scanDepth,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder added",
		"id", folder.ID,
		"path", folder.Path,
		"scan_depth", folder.ScanDepth,
	)

	return folder, nil
}

// UpdateFolder renames, moves or changes the settings of a folder
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *models.UpdateFolderRequest) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Path != nil {
		path := strings.TrimSpace(*req.Path)
		if path == "" {
			return nil, fmt.Errorf("folder path must not be empty: %w", domain.ErrValidation)
		}
		folder.Path = filepath.Clean(path)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > config.MaxFolderNameLength {
			return nil, fmt.Errorf("folder name must be 1-%d characters: %w", config.MaxFolderNameLength, domain.ErrValidation)
		}
		folder.Name = name
	}
	if req.ScanDepth != nil {
		if err := validateScanDepth(*req.ScanDepth); err != nil {
			return nil, err
		}
		folder.ScanDepth = *req.ScanDepth
	}
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "id", folder.ID, "path", folder.Path)

	return folder, nil
}

// ToggleFolder flips only the enabled flag
func (s *folderService) ToggleFolder(ctx context.Context, id string, enabled bool) error {
	if err := s.folderRepo.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}

	s.logger.Info("folder toggled", "id", id, "enabled", enabled)
	return nil
}

// RemoveFolder deletes a folder and, by cascade, its rules
func (s *folderService) RemoveFolder(ctx context.Context, id string) error {
	if err := s.folderRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("folder removed", "id", id)
	return nil
}

// validateCreateRequest validates an add-folder request
func (s *folderService) validateCreateRequest(req *models.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Path, validation.Required),
		validation.Field(&req.Name, validation.Length(0, config.MaxFolderNameLength)),
		validation.Field(&req.ScanDepth, validation.By(func(value interface{}) error {
			depth, _ := value.(*int)
			if depth == nil {
				return nil
			}
			return validateScanDepth(*depth)
		})),
	)
}

// validateScanDepth enforces that -1 is the only negative scan depth
func validateScanDepth(depth int) error {
	if depth < config.UnlimitedScanDepth {
		return fmt.Errorf("scan depth %d is invalid, -1 is the only negative value: %w", depth, domain.ErrValidation)
	}
	return nil
}
