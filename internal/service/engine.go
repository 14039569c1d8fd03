package service

import (
	"context"
	"log/slog"

	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
	"sortd/internal/domain/services"
	"sortd/internal/match"
)

type engineService struct {
	engine     services.Engine
	ruleRepo   repositories.RuleRepository
	folderRepo repositories.FolderRepository
	evaluator  *match.Evaluator
	logger     *slog.Logger
}

// NewEngineService creates a new engine service
func NewEngineService(
	engine services.Engine,
	ruleRepo repositories.RuleRepository,
	folderRepo repositories.FolderRepository,
	evaluator *match.Evaluator,
	logger *slog.Logger,
) services.EngineService {
	return &engineService{
		engine:     engine,
		ruleRepo:   ruleRepo,
		folderRepo: folderRepo,
		evaluator:  evaluator,
		logger:     logger,
	}
}

// Status reads the engine snapshot
func (s *engineService) Status(ctx context.Context) (*models.EngineStatus, error) {
	return s.engine.Status(ctx)
}

// SetPaused pauses or resumes the engine
func (s *engineService) SetPaused(ctx context.Context, paused bool) (*models.EngineStatus, error) {
	if err := s.engine.SetPaused(ctx, paused); err != nil {
		return nil, err
	}

	s.logger.Info("engine pause state set", "paused", paused)
	return s.engine.Status(ctx)
}

// TogglePaused flips the paused flag
func (s *engineService) TogglePaused(ctx context.Context) (*models.EngineStatus, error) {
	status, err := s.engine.Status(ctx)
	if err != nil {
		return nil, err
	}
	return s.SetPaused(ctx, !status.Paused)
}

// PreviewRule walks the rule's folder and returns the paths that currently
// match. Read-only; nothing is executed or logged.
func (s *engineService) PreviewRule(ctx context.Context, ruleID string) ([]string, error) {
	rule, folder, err := s.loadRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	facts, err := s.engine.Walk(ctx, folder.Path, folder.ScanDepth)
	if err != nil {
		return nil, err
	}

	matched := make([]string, 0)
	for i := range facts {
		if s.evaluator.Evaluate(&rule.Conditions, facts[i]) {
			matched = append(matched, facts[i].Path)
		}
	}
	return matched, nil
}

// PreviewFile reports whether a single file currently matches the rule
func (s *engineService) PreviewFile(ctx context.Context, ruleID, filePath string) (bool, error) {
	rule, _, err := s.loadRule(ctx, ruleID)
	if err != nil {
		return false, err
	}

	facts, err := s.engine.Snapshot(ctx, filePath)
	if err != nil {
		return false, err
	}

	return s.evaluator.Evaluate(&rule.Conditions, *facts), nil
}

func (s *engineService) loadRule(ctx context.Context, ruleID string) (*models.Rule, *models.Folder, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, nil, err
	}
	folder, err := s.folderRepo.GetByID(ctx, rule.FolderID)
	if err != nil {
		return nil, nil, err
	}
	return rule, folder, nil
}
