package services

import (
	"context"

	"sortd/internal/domain/models"
)

// RuleService is the rule registry: the ordered collection of rules per
// folder plus import/export normalization.
type RuleService interface {
	// ListRules retrieves a folder's rules ordered by position ascending
	ListRules(ctx context.Context, folderID string) ([]models.Rule, error)

	// GetRule retrieves a rule by ID
	GetRule(ctx context.Context, id string) (*models.Rule, error)

	// CreateRule validates and creates a rule at position = current count
	CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.Rule, error)

	// UpdateRule replaces the named parts of the rule; position is untouched
	UpdateRule(ctx context.Context, id string, req *models.UpdateRuleRequest) (*models.Rule, error)

	// DeleteRule removes a rule; positions are not compacted until the next
	// reorder
	DeleteRule(ctx context.Context, id string) error

	// ToggleRule flips only the enabled flag
	ToggleRule(ctx context.Context, id string, enabled bool) error

	// DuplicateRule deep-copies a rule under a new id and name, appended at
	// the end of the folder's list
	DuplicateRule(ctx context.Context, id string) (*models.Rule, error)

	// ReorderRules reassigns positions from the caller's complete ordering.
	// Fails with a validation error unless orderedIDs is a permutation of
	// the folder's current rule ids. Idempotent.
	ReorderRules(ctx context.Context, folderID string, orderedIDs []string) error

	// ExportRules serializes all rules of a folder, in position order
	ExportRules(ctx context.Context, folderID string) ([]byte, error)

	// ImportRules normalizes and imports an externally supplied payload,
	// appending the rules at the end of the folder's list
	ImportRules(ctx context.Context, folderID string, payload []byte) ([]models.Rule, error)
}
