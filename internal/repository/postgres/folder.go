package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new watched folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, path, name, enabled, scan_depth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.Path,
		folder.Name,
		folder.Enabled,
		folder.ScanDepth,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder for path '%s': %w", folder.Path, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.path, f.name, f.enabled, f.scan_depth, f.created_at, f.updated_at,
		       (SELECT COUNT(*) FROM %s r WHERE r.folder_id = f.id)
		FROM %s f
		WHERE f.id = $1
	`, r.tables.Rules, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.Path,
		&folder.Name,
		&folder.Enabled,
		&folder.ScanDepth,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.RuleCount,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// List retrieves all watched folders with rule counts
func (r *PostgresFolderRepository) List(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.path, f.name, f.enabled, f.scan_depth, f.created_at, f.updated_at,
		       (SELECT COUNT(*) FROM %s r WHERE r.folder_id = f.id)
		FROM %s f
		ORDER BY f.created_at ASC
	`, r.tables.Rules, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Path,
			&folder.Name,
			&folder.Enabled,
			&folder.ScanDepth,
			&folder.CreatedAt,
			&folder.UpdatedAt,
			&folder.RuleCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Update updates a folder's path, name, enabled flag and scan depth
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET path = $1, name = $2, enabled = $3, scan_depth = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Path,
		folder.Name,
		folder.Enabled,
		folder.ScanDepth,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder for path '%s': %w", folder.Path, domain.ErrConflict)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// SetEnabled flips only the enabled flag
func (r *PostgresFolderRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET enabled = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, enabled, id)
	if err != nil {
		return fmt.Errorf("toggle folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder; rules cascade via the foreign key
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
