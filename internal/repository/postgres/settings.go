package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
)

// settingsRowID pins the settings table to a single row.
const settingsRowID = 1

// PostgresSettingsRepository implements the SettingsRepository interface
type PostgresSettingsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get retrieves the stored settings values; nil when none exist yet
func (r *PostgresSettingsRepository) Get(ctx context.Context) (models.JSONMap, error) {
	query := fmt.Sprintf(`
		SELECT data FROM %s WHERE id = $1
	`, r.tables.Settings)

	var values models.JSONMap
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, settingsRowID).Scan(&values)

	if err != nil {
		if isPgNoRowsError(err) {
			// No settings stored yet - not an error
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return values, nil
}

// Upsert creates or replaces the stored settings values
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, values models.JSONMap) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, r.tables.Settings)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, settingsRowID, values, time.Now()); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}
