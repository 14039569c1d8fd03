package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
	"sortd/internal/domain/services"
)

type ledgerService struct {
	logRepo   repositories.LogRepository
	txManager repositories.TransactionManager
	engine    services.Engine
	clock     services.Clock
	ids       services.IDGenerator
	logger    *slog.Logger

	mu        sync.RWMutex
	observers []services.LogObserver
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	logRepo repositories.LogRepository,
	txManager repositories.TransactionManager,
	engine services.Engine,
	clock services.Clock,
	ids services.IDGenerator,
	logger *slog.Logger,
) services.LedgerService {
	return &ledgerService{
		logRepo:   logRepo,
		txManager: txManager,
		engine:    engine,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

// Append records one executed action. For reversible actions the undo entry
// is written in the same transaction, so the log never carries a dangling
// undo promise. Observers are notified after commit.
func (s *ledgerService) Append(ctx context.Context, req *models.AppendLogRequest) (*models.LogEntry, error) {
	if req.FilePath == "" {
		return nil, fmt.Errorf("log entry needs a file path: %w", domain.ErrValidation)
	}
	switch req.Status {
	case models.StatusSuccess, models.StatusError, models.StatusSkipped:
	default:
		return nil, fmt.Errorf("unknown log status %q: %w", req.Status, domain.ErrValidation)
	}

	now := s.clock.Now()
	entry := &models.LogEntry{
		ID:           s.ids.New(),
		RuleID:       req.RuleID,
		RuleName:     req.RuleName,
		FilePath:     req.FilePath,
		ActionType:   req.ActionType,
		Detail:       req.Detail,
		Status:       req.Status,
		ErrorMessage: req.ErrorMessage,
		CreatedAt:    now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.logRepo.Append(ctx, entry); err != nil {
			return err
		}
		if req.Undo == nil {
			return nil
		}
		if !entry.ActionType.Reversible() {
			return fmt.Errorf("action %q is not reversible: %w", entry.ActionType, domain.ErrValidation)
		}
		undo := &models.UndoEntry{
			ID:           s.ids.New(),
			LogID:        entry.ID,
			ActionType:   entry.ActionType,
			OriginalPath: req.Undo.OriginalPath,
			CurrentPath:  req.Undo.CurrentPath,
			CreatedAt:    now,
		}
		return s.logRepo.AppendUndo(ctx, undo)
	})
	if err != nil {
		return nil, err
	}

	s.notify(*entry)

	return entry, nil
}

// ListLog retrieves entries newest first, bounded by limit/offset
func (s *ledgerService) ListLog(ctx context.Context, limit, offset int) ([]models.LogEntry, error) {
	return s.logRepo.List(ctx, limit, offset)
}

// ClearLog deletes all entries. Undo entries cascade with the log entries
// they reference, so undoing a cleared entry reports not-found afterwards.
func (s *ledgerService) ClearLog(ctx context.Context) error {
	if err := s.logRepo.Clear(ctx); err != nil {
		return err
	}

	s.logger.Info("log cleared")
	return nil
}

// ListUndo retrieves undo entries newest first, bounded by limit
func (s *ledgerService) ListUndo(ctx context.Context, limit int) ([]models.UndoEntry, error) {
	return s.logRepo.ListUndo(ctx, limit)
}

// ExecuteUndo restores the undo entry's current path back to its original
// path through the engine, then appends a reversal log entry. A restore
// conflict (file moved again, destination occupied) is reported, not fatal;
// the original log entry stays untouched either way.
func (s *ledgerService) ExecuteUndo(ctx context.Context, undoID string) (*models.LogEntry, error) {
	undo, err := s.logRepo.GetUndo(ctx, undoID)
	if err != nil {
		return nil, err
	}

	if err := s.engine.Restore(ctx, undo.CurrentPath, undo.OriginalPath); err != nil {
		return nil, err
	}

	reversal, err := s.Append(ctx, &models.AppendLogRequest{
		FilePath:   undo.OriginalPath,
		ActionType: models.ActionMove,
		Detail: &models.LogDetail{
			Source:      undo.CurrentPath,
			Destination: undo.OriginalPath,
			Metadata:    map[string]string{"undo_of": undo.LogID},
		},
		Status: models.StatusSuccess,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("undo executed",
		"undo_id", undo.ID,
		"log_id", undo.LogID,
		"restored_to", undo.OriginalPath,
	)

	return reversal, nil
}

// Subscribe registers an observer for appended entries
func (s *ledgerService) Subscribe(observer services.LogObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

func (s *ledgerService) notify(entry models.LogEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, observer := range s.observers {
		observer.LogAppended(entry)
	}
}
