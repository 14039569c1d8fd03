package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/repositories"
)

// MemFolderRepository is an in-memory FolderRepository.
type MemFolderRepository struct {
	mu      sync.Mutex
	folders map[string]models.Folder
	rules   *MemRuleRepository // optional, for rule counts
}

func NewMemFolderRepository() *MemFolderRepository {
	return &MemFolderRepository{folders: make(map[string]models.Folder)}
}

// WithRules lets List and GetByID report live rule counts.
func (r *MemFolderRepository) WithRules(rules *MemRuleRepository) *MemFolderRepository {
	r.rules = rules
	return r
}

func (r *MemFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.folders {
		if existing.Path == folder.Path {
			return fmt.Errorf("folder %s: %w", folder.Path, domain.ErrConflict)
		}
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *MemFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folder.RuleCount = r.countRules(id)
	return &folder, nil
}

func (r *MemFolderRepository) List(ctx context.Context) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Folder, 0, len(r.folders))
	for _, folder := range r.folders {
		folder.RuleCount = r.countRules(folder.ID)
		out = append(out, folder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *MemFolderRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folder.Enabled = enabled
	r.folders[id] = folder
	return nil
}

func (r *MemFolderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	if r.rules != nil {
		r.rules.deleteByFolder(id)
	}
	return nil
}

func (r *MemFolderRepository) countRules(folderID string) int {
	if r.rules == nil {
		return 0
	}
	return r.rules.count(folderID)
}

// MemRuleRepository is an in-memory RuleRepository preserving the ordering
// contract: position ascending, ties broken by id.
type MemRuleRepository struct {
	mu    sync.Mutex
	rules map[string]models.Rule
}

func NewMemRuleRepository() *MemRuleRepository {
	return &MemRuleRepository{rules: make(map[string]models.Rule)}
}

func (r *MemRuleRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Rule
	for _, rule := range r.rules {
		if rule.FolderID == folderID {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemRuleRepository) GetByID(ctx context.Context, id string) (*models.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
	}
	return &rule, nil
}

func (r *MemRuleRepository) CountByFolder(ctx context.Context, folderID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count(folderID), nil
}

func (r *MemRuleRepository) Create(ctx context.Context, rule *models.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID] = *rule
	return nil
}

func (r *MemRuleRepository) Update(ctx context.Context, rule *models.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rules[rule.ID]
	if !ok {
		return fmt.Errorf("rule %s: %w", rule.ID, domain.ErrNotFound)
	}
	updated := *rule
	updated.Position = existing.Position
	r.rules[rule.ID] = updated
	return nil
}

func (r *MemRuleRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
	}
	rule.Enabled = enabled
	r.rules[id] = rule
	return nil
}

func (r *MemRuleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[id]; !ok {
		return fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
	}
	delete(r.rules, id)
	return nil
}

func (r *MemRuleRepository) UpdatePositions(ctx context.Context, folderID string, positions map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pos := range positions {
		rule, ok := r.rules[id]
		if !ok || rule.FolderID != folderID {
			return fmt.Errorf("rule %s: %w", id, domain.ErrNotFound)
		}
		rule.Position = pos
		r.rules[id] = rule
	}
	return nil
}

func (r *MemRuleRepository) count(folderID string) int {
	n := 0
	for _, rule := range r.rules {
		if rule.FolderID == folderID {
			n++
		}
	}
	return n
}

func (r *MemRuleRepository) deleteByFolder(folderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rule := range r.rules {
		if rule.FolderID == folderID {
			delete(r.rules, id)
		}
	}
}

// MemLogRepository is an in-memory LogRepository. Clearing the log drops the
// undo entries with it, matching the cascade in the schema.
type MemLogRepository struct {
	mu      sync.Mutex
	entries []models.LogEntry
	undos   []models.UndoEntry
}

func NewMemLogRepository() *MemLogRepository {
	return &MemLogRepository{}
}

func (r *MemLogRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemLogRepository) List(ctx context.Context, limit, offset int) ([]models.LogEntry, error) {
	all, _ := r.ListAll(ctx)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemLogRepository) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LogEntry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemLogRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.undos = nil
	return nil
}

func (r *MemLogRepository) AppendUndo(ctx context.Context, entry *models.UndoEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := false
	for _, log := range r.entries {
		if log.ID == entry.LogID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("log entry %s: %w", entry.LogID, domain.ErrValidation)
	}
	r.undos = append(r.undos, *entry)
	return nil
}

func (r *MemLogRepository) GetUndo(ctx context.Context, id string) (*models.UndoEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, undo := range r.undos {
		if undo.ID == id {
			u := undo
			return &u, nil
		}
	}
	return nil, fmt.Errorf("undo entry %s: %w", id, domain.ErrNotFound)
}

func (r *MemLogRepository) ListUndo(ctx context.Context, limit int) ([]models.UndoEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UndoEntry, len(r.undos))
	copy(out, r.undos)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// MemSettingsRepository is an in-memory SettingsRepository.
type MemSettingsRepository struct {
	mu     sync.Mutex
	values models.JSONMap
}

func NewMemSettingsRepository() *MemSettingsRepository {
	return &MemSettingsRepository{}
}

func (r *MemSettingsRepository) Get(ctx context.Context) (models.JSONMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values == nil {
		return nil, nil
	}
	out := make(models.JSONMap, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out, nil
}

func (r *MemSettingsRepository) Upsert(ctx context.Context, values models.JSONMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = values
	return nil
}

// PassthroughTx runs the function without any transaction. The in-memory
// repositories apply writes immediately, so tests asserting "no partial
// application" go through the validation paths instead.
type PassthroughTx struct{}

func (PassthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
