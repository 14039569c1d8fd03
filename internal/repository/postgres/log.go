package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
)

// PostgresLogRepository implements the LogRepository interface. Log entries
// are append-only: there is no update path at all.
type PostgresLogRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewLogRepository creates a new log repository
func NewLogRepository(config *RepositoryConfig) repositories.LogRepository {
	return &PostgresLogRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Append inserts a log entry
func (r *PostgresLogRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	var detail []byte
	if entry.Detail != nil {
		var err error
		detail, err = json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("encode log detail: %w", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, rule_id, rule_name, file_path, action_type, detail, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.LogEntries)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		entry.RuleID,
		entry.RuleName,
		entry.FilePath,
		entry.ActionType,
		detail,
		entry.Status,
		entry.ErrorMessage,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}

	return nil
}

// List retrieves entries newest first, bounded by limit/offset
func (r *PostgresLogRepository) List(ctx context.Context, limit, offset int) ([]models.LogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, rule_id, rule_name, file_path, action_type, detail, status, error_message, created_at
		FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, r.tables.LogEntries)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	return collectLogEntries(rows)
}

// ListAll retrieves the full log snapshot newest first
func (r *PostgresLogRepository) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, rule_id, rule_name, file_path, action_type, detail, status, error_message, created_at
		FROM %s
		ORDER BY created_at DESC, id DESC
	`, r.tables.LogEntries)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	return collectLogEntries(rows)
}

// Clear deletes all log entries; undo entries cascade via the foreign key
func (r *PostgresLogRepository) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, r.tables.LogEntries)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query); err != nil {
		return fmt.Errorf("clear log: %w", err)
	}

	return nil
}

// AppendUndo inserts an undo entry referencing an existing log entry
func (r *PostgresLogRepository) AppendUndo(ctx context.Context, entry *models.UndoEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, log_id, action_type, original_path, current_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.UndoEntries)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		entry.LogID,
		entry.ActionType,
		entry.OriginalPath,
		entry.CurrentPath,
		entry.CreatedAt,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("log entry %s does not exist: %w", entry.LogID, domain.ErrValidation)
		}
		return fmt.Errorf("append undo entry: %w", err)
	}

	return nil
}

// GetUndo retrieves an undo entry by ID
func (r *PostgresLogRepository) GetUndo(ctx context.Context, id string) (*models.UndoEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, log_id, action_type, original_path, current_path, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.UndoEntries)

	var entry models.UndoEntry
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.LogID,
		&entry.ActionType,
		&entry.OriginalPath,
		&entry.CurrentPath,
		&entry.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("undo entry %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get undo entry: %w", err)
	}

	return &entry, nil
}

// ListUndo retrieves undo entries newest first, bounded by limit
func (r *PostgresLogRepository) ListUndo(ctx context.Context, limit int) ([]models.UndoEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, log_id, action_type, original_path, current_path, created_at
		FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, r.tables.UndoEntries)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list undo entries: %w", err)
	}
	defer rows.Close()

	var entries []models.UndoEntry
	for rows.Next() {
		var entry models.UndoEntry
		err := rows.Scan(
			&entry.ID,
			&entry.LogID,
			&entry.ActionType,
			&entry.OriginalPath,
			&entry.CurrentPath,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan undo entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate undo entries: %w", err)
	}

	return entries, nil
}

func collectLogEntries(rows pgx.Rows) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		var detail []byte
		err := rows.Scan(
			&entry.ID,
			&entry.RuleID,
			&entry.RuleName,
			&entry.FilePath,
			&entry.ActionType,
			&detail,
			&entry.Status,
			&entry.ErrorMessage,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &entry.Detail); err != nil {
				return nil, fmt.Errorf("decode log detail: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}

	return entries, nil
}
