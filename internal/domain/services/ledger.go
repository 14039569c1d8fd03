package services

import (
	"context"

	"sortd/internal/domain/models"
)

// LogObserver receives every appended log entry. Used by push surfaces
// (the websocket feed) so the UI does not have to poll for new entries.
type LogObserver interface {
	LogAppended(entry models.LogEntry)
}

// LedgerService owns the append-only execution log and its undo ledger.
type LedgerService interface {
	// Append records one executed action and, for reversible actions,
	// its undo entry in the same transaction
	Append(ctx context.Context, req *models.AppendLogRequest) (*models.LogEntry, error)

	// ListLog retrieves entries newest first, bounded by limit/offset
	ListLog(ctx context.Context, limit, offset int) ([]models.LogEntry, error)

	// ClearLog deletes all entries; undo of a cleared entry is NotFound
	ClearLog(ctx context.Context) error

	// ListUndo retrieves undo entries newest first, bounded by limit
	ListUndo(ctx context.Context, limit int) ([]models.UndoEntry, error)

	// ExecuteUndo restores the undo entry's current path back toward its
	// original path through the engine, then appends a reversal log entry
	ExecuteUndo(ctx context.Context, undoID string) (*models.LogEntry, error)

	// Subscribe registers an observer for appended entries
	Subscribe(observer LogObserver)
}
