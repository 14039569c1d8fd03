package repositories

import (
	"context"

	"sortd/internal/domain/models"
)

// LogRepository defines data access operations for the execution log and
// its undo ledger. Append is the only write path; entries are immutable.
type LogRepository interface {
	// Append inserts a log entry
	Append(ctx context.Context, entry *models.LogEntry) error

	// List retrieves entries newest first, bounded by limit/offset
	List(ctx context.Context, limit, offset int) ([]models.LogEntry, error)

	// ListAll retrieves the full log snapshot newest first (analytics)
	ListAll(ctx context.Context) ([]models.LogEntry, error)

	// Clear deletes all log entries; undo entries cascade with them
	Clear(ctx context.Context) error

	// AppendUndo inserts an undo entry referencing an existing log entry
	AppendUndo(ctx context.Context, entry *models.UndoEntry) error

	// GetUndo retrieves an undo entry by ID
	GetUndo(ctx context.Context, id string) (*models.UndoEntry, error)

	// ListUndo retrieves undo entries newest first, bounded by limit
	ListUndo(ctx context.Context, limit int) ([]models.UndoEntry, error)
}
