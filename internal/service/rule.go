package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sortd/internal/config"
	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
	"sortd/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ruleService struct {
	ruleRepo   repositories.RuleRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	ids        services.IDGenerator
	logger     *slog.Logger
}

// NewRuleService creates a new rule service
func NewRuleService(
	ruleRepo repositories.RuleRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	ids services.IDGenerator,
	logger *slog.Logger,
) services.RuleService {
	return &ruleService{
		ruleRepo:   ruleRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		ids:        ids,
		logger:     logger,
	}
}

// ListRules retrieves a folder's rules ordered by position ascending
func (s *ruleService) ListRules(ctx context.Context, folderID string) ([]models.Rule, error) {
	return s.ruleRepo.ListByFolder(ctx, folderID)
}

// GetRule retrieves a rule by ID
func (s *ruleService) GetRule(ctx context.Context, id string) (*models.Rule, error) {
	return s.ruleRepo.GetByID(ctx, id)
}

// CreateRule validates and creates a rule at position = current count
func (s *ruleService) CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.Rule, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.folderRepo.GetByID(ctx, req.FolderID); err != nil {
		return nil, err
	}

	count, err := s.ruleRepo.CountByFolder(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now()
	rule := &models.Rule{
		ID:             s.ids.New(),
		FolderID:       req.FolderID,
		Name:           strings.TrimSpace(req.Name),
		Enabled:        enabled,
		StopProcessing: req.StopProcessing,
		Conditions:     req.Conditions,
		Actions:        req.Actions,
		Position:       count,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("rule created",
		"id", rule.ID,
		"folder_id", rule.FolderID,
		"position", rule.Position,
	)

	return rule, nil
}

// UpdateRule replaces the named parts of the rule; position is untouched
func (s *ruleService) UpdateRule(ctx context.Context, id string, req *models.UpdateRuleRequest) (*models.Rule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > config.MaxRuleNameLength {
			return nil, fmt.Errorf("rule name must be 1-%d characters: %w", config.MaxRuleNameLength, domain.ErrValidation)
		}
		rule.Name = name
	}
	if req.StopProcessing != nil {
		rule.StopProcessing = *req.StopProcessing
	}
	if req.Conditions != nil {
		if err := req.Conditions.Validate(config.MaxConditionDepth); err != nil {
			return nil, err
		}
		rule.Conditions = *req.Conditions
	}
	if req.Actions != nil {
		if err := validateActions(*req.Actions); err != nil {
			return nil, err
		}
		rule.Actions = *req.Actions
	}
	rule.UpdatedAt = time.Now()

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("rule updated", "id", rule.ID)

	return rule, nil
}

// DeleteRule removes a rule. The remaining positions keep their gaps; the
// (position, id) ordering stays total without compaction.
func (s *ruleService) DeleteRule(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("rule deleted", "id", id)
	return nil
}

// ToggleRule flips only the enabled flag
func (s *ruleService) ToggleRule(ctx context.Context, id string, enabled bool) error {
	if err := s.ruleRepo.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}

	s.logger.Info("rule toggled", "id", id, "enabled", enabled)
	return nil
}

// DuplicateRule deep-copies a rule under a new id and name, appended at the
// end of the folder's list
func (s *ruleService) DuplicateRule(ctx context.Context, id string) (*models.Rule, error) {
	original, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.ruleRepo.CountByFolder(ctx, original.FolderID)
	if err != nil {
		return nil, err
	}

	copied, err := deepCopyRule(original)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	copied.ID = s.ids.New()
	copied.Name = original.Name + " (copy)"
	copied.Position = count
	copied.CreatedAt = now
	copied.UpdatedAt = now

	if err := s.ruleRepo.Create(ctx, copied); err != nil {
		return nil, err
	}

	s.logger.Info("rule duplicated",
		"source_id", original.ID,
		"id", copied.ID,
		"position", copied.Position,
	)

	return copied, nil
}

// ReorderRules reassigns positions 0..N-1 from the caller's complete
// ordering. The ordering must be a permutation of the folder's current rule
// ids; anything missing or extra fails validation before any write happens.
// Applying the same ordering twice yields identical positions.
func (s *ruleService) ReorderRules(ctx context.Context, folderID string, orderedIDs []string) error {
	current, err := s.ruleRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return err
	}

	if err := checkPermutation(current, orderedIDs); err != nil {
		return err
	}

	positions := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		positions[id] = i
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.ruleRepo.UpdatePositions(ctx, folderID, positions)
	})
	if err != nil {
		return err
	}

	s.logger.Info("rules reordered", "folder_id", folderID, "count", len(orderedIDs))
	return nil
}

// ExportRules serializes all rules of a folder, in position order
func (s *ruleService) ExportRules(ctx context.Context, folderID string) ([]byte, error) {
	rules, err := s.ruleRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rules); err != nil {
		return nil, fmt.Errorf("failed to serialize rules: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportRules normalizes and imports an externally supplied payload,
// appending the rules at the end of the folder's list
func (s *ruleService) ImportRules(ctx context.Context, folderID string, payload []byte) ([]models.Rule, error) {
	if len(payload) > config.MaxImportPayloadBytes {
		return nil, fmt.Errorf("import payload exceeds %d bytes: %w", config.MaxImportPayloadBytes, domain.ErrValidation)
	}

	if _, err := s.folderRepo.GetByID(ctx, folderID); err != nil {
		return nil, err
	}

	items, err := NormalizeImportPayload(payload)
	if err != nil {
		return nil, err
	}

	count, err := s.ruleRepo.CountByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	imported := make([]models.Rule, 0, len(items))
	for i, raw := range items {
		var req models.CreateRuleRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("rule %d: %v: %w", i, err, domain.ErrInvalidShape)
		}
		req.FolderID = folderID
		if err := s.validateCreateRequest(&req); err != nil {
			return nil, fmt.Errorf("rule %d: %v: %w", i, err, domain.ErrValidation)
		}

		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}
		imported = append(imported, models.Rule{
			ID:             s.ids.New(),
			FolderID:       folderID,
			Name:           strings.TrimSpace(req.Name),
			Enabled:        enabled,
			StopProcessing: req.StopProcessing,
			Conditions:     req.Conditions,
			Actions:        req.Actions,
			Position:       count + i,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	// All rules validated; nothing was written until here.
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for i := range imported {
			if err := s.ruleRepo.Create(ctx, &imported[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rules imported", "folder_id", folderID, "count", len(imported))

	return imported, nil
}

// NormalizeImportPayload parses an import payload into a sequence of
// rule-shaped raw messages. A single object is wrapped into a one-element
// sequence; a non-empty array passes through. Empty input fails with
// ErrEmptyPayload, unparseable input with ErrInvalidFormat, and any parsed
// value that is not object-shaped (primitive, null, empty array) with
// ErrInvalidShape. Field-level rule validation is a separate, later step.
func NormalizeImportPayload(payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	var value json.RawMessage
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}

	switch value[0] {
	case '{':
		return []json.RawMessage{value}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("empty rule list: %w", domain.ErrInvalidShape)
		}
		for i, item := range items {
			elem := bytes.TrimSpace(item)
			if len(elem) == 0 || elem[0] != '{' {
				return nil, fmt.Errorf("element %d is not an object: %w", i, domain.ErrInvalidShape)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("payload is not an object or list: %w", domain.ErrInvalidShape)
	}
}

// checkPermutation verifies orderedIDs is exactly the folder's rule id set.
func checkPermutation(current []models.Rule, orderedIDs []string) error {
	if len(orderedIDs) != len(current) {
		return fmt.Errorf("reorder carries %d ids but folder has %d rules: %w",
			len(orderedIDs), len(current), domain.ErrValidation)
	}

	existing := make(map[string]bool, len(current))
	for _, rule := range current {
		existing[rule.ID] = true
	}

	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !existing[id] {
			return fmt.Errorf("reorder references unknown rule %s: %w", id, domain.ErrValidation)
		}
		if seen[id] {
			return fmt.Errorf("reorder repeats rule %s: %w", id, domain.ErrValidation)
		}
		seen[id] = true
	}
	return nil
}

// deepCopyRule copies a rule by value through its JSON form, so nested
// condition groups and action payloads do not share pointers with the source.
func deepCopyRule(rule *models.Rule) (*models.Rule, error) {
	raw, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to copy rule: %w", err)
	}
	var copied models.Rule
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, fmt.Errorf("failed to copy rule: %w", err)
	}
	return &copied, nil
}

func (s *ruleService) validateCreateRequest(req *models.CreateRuleRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.FolderID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxRuleNameLength)),
	); err != nil {
		return err
	}
	if err := req.Conditions.Validate(config.MaxConditionDepth); err != nil {
		return err
	}
	return validateActions(req.Actions)
}

func validateActions(actions []models.Action) error {
	if len(actions) == 0 {
		return fmt.Errorf("rule needs at least one action: %w", domain.ErrValidation)
	}
	for i := range actions {
		if err := actions[i].Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}
