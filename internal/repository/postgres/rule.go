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

// PostgresRuleRepository implements the RuleRepository interface. Conditions
// and actions are stored as JSONB documents; the tagged-variant shape is the
// persisted exchange format, so no mapping layer sits in between.
type PostgresRuleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(config *RepositoryConfig) repositories.RuleRepository {
	return &PostgresRuleRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListByFolder retrieves a folder's rules ordered by position then id.
// The id tiebreak keeps the order total between deletes, when positions
// are not necessarily dense.
func (r *PostgresRuleRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Rule, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, name, enabled, stop_processing, conditions, actions, position, created_at, updated_at
		FROM %s
		WHERE folder_id = $1
		ORDER BY position ASC, id ASC
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	return rules, nil
}

// GetByID retrieves a rule by ID
func (r *PostgresRuleRepository) GetByID(ctx context.Context, id string) (*models.Rule, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, name, enabled, stop_processing, conditions, actions, position, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	rule, err := scanRule(executor.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	return rule, nil
}

// CountByFolder returns the number of rules in a folder
func (r *PostgresRuleRepository) CountByFolder(ctx context.Context, folderID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE folder_id = $1
	`, r.tables.Rules)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rules: %w", err)
	}

	return count, nil
}

// Create creates a rule at the position the caller assigned
func (r *PostgresRuleRepository) Create(ctx context.Context, rule *models.Rule) error {
	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, name, enabled, stop_processing, conditions, actions, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		rule.ID,
		rule.FolderID,
		rule.Name,
		rule.Enabled,
		rule.StopProcessing,
		conditions,
		actions,
		rule.Position,
		rule.CreatedAt,
		rule.UpdatedAt,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s does not exist: %w", rule.FolderID, domain.ErrValidation)
		}
		return fmt.Errorf("create rule: %w", err)
	}

	return nil
}

// Update replaces everything but position and creation timestamp
func (r *PostgresRuleRepository) Update(ctx context.Context, rule *models.Rule) error {
	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, enabled = $2, stop_processing = $3, conditions = $4, actions = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		rule.Name,
		rule.Enabled,
		rule.StopProcessing,
		conditions,
		actions,
		rule.UpdatedAt,
		rule.ID,
	)

	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", rule.ID, domain.ErrNotFound)
	}

	return nil
}

// SetEnabled flips only the enabled flag
func (r *PostgresRuleRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET enabled = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, enabled, id)
	if err != nil {
		return fmt.Errorf("toggle rule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a rule. Remaining positions are left as-is; the next
// reorder compacts them.
func (r *PostgresRuleRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdatePositions reassigns positions for the given rule ids. The caller
// runs this inside a transaction so the rewrite is atomic.
func (r *PostgresRuleRepository) UpdatePositions(ctx context.Context, folderID string, positions map[string]int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET position = $1, updated_at = NOW()
		WHERE id = $2 AND folder_id = $3
	`, r.tables.Rules)

	executor := GetExecutor(ctx, r.pool)
	for id, position := range positions {
		result, err := executor.Exec(ctx, query, position, id, folderID)
		if err != nil {
			return fmt.Errorf("update rule position: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("rule %s in folder %s: %w", id, folderID, domain.ErrNotFound)
		}
	}

	return nil
}

// encodeRule marshals the JSONB columns
func encodeRule(rule *models.Rule) (conditions, actions []byte, err error) {
	conditions, err = json.Marshal(rule.Conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode conditions: %w", err)
	}
	actions, err = json.Marshal(rule.Actions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode actions: %w", err)
	}
	return conditions, actions, nil
}

// scanRule reads one rule row, decoding the JSONB columns
func scanRule(row pgx.Row) (*models.Rule, error) {
	var rule models.Rule
	var conditions, actions []byte

	err := row.Scan(
		&rule.ID,
		&rule.FolderID,
		&rule.Name,
		&rule.Enabled,
		&rule.StopProcessing,
		&conditions,
		&actions,
		&rule.Position,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan rule: %w", err)
	}

	if err := json.Unmarshal(conditions, &rule.Conditions); err != nil {
		return nil, fmt.Errorf("decode conditions: %w", err)
	}
	if err := json.Unmarshal(actions, &rule.Actions); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}

	return &rule, nil
}
