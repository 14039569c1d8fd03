package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/services"
	"sortd/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRuleFixture(t *testing.T) (services.RuleService, *testutil.MemRuleRepository, *testutil.MemFolderRepository, string) {
	t.Helper()

	ruleRepo := testutil.NewMemRuleRepository()
	folderRepo := testutil.NewMemFolderRepository().WithRules(ruleRepo)
	svc := NewRuleService(ruleRepo, folderRepo, testutil.PassthroughTx{}, testutil.NewStubIDGenerator(), discardLogger())

	folder := &models.Folder{
		ID:        "folder-1",
		Path:      "/watch/downloads",
		Name:      "Downloads",
		Enabled:   true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := folderRepo.Create(context.Background(), folder); err != nil {
		t.Fatal(err)
	}
	return svc, ruleRepo, folderRepo, folder.ID
}

func sampleCreateRequest(folderID, name string) *models.CreateRuleRequest {
	return &models.CreateRuleRequest{
		FolderID: folderID,
		Name:     name,
		Conditions: models.ConditionGroup{
			MatchType: models.MatchAll,
			Conditions: []models.Condition{{
				Type: models.ConditionExtension,
				Text: &models.TextPredicate{Operator: models.StringIs, Value: "pdf"},
			}},
		},
		Actions: []models.Action{{
			Type:        models.ActionMove,
			Destination: "/archive",
			Conflict:    models.ConflictRename,
		}},
	}
}

func TestCreateRuleAssignsTailPosition(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	first, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "first"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "second"))
	if err != nil {
		t.Fatal(err)
	}

	if first.Position != 0 || second.Position != 1 {
		t.Errorf("positions = %d, %d, want 0, 1", first.Position, second.Position)
	}
	if !first.Enabled {
		t.Error("rules default to enabled")
	}
}

func TestCreateRuleValidation(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.CreateRuleRequest)
	}{
		{"missing name", func(r *models.CreateRuleRequest) { r.Name = "" }},
		{"no actions", func(r *models.CreateRuleRequest) { r.Actions = nil }},
		{"bad match type", func(r *models.CreateRuleRequest) { r.Conditions.MatchType = "some" }},
		{"move without destination", func(r *models.CreateRuleRequest) {
			r.Actions = []models.Action{{Type: models.ActionMove}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleCreateRequest(folderID, "rule")
			tt.mutate(req)
			if _, err := svc.CreateRule(ctx, req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	t.Run("unknown folder", func(t *testing.T) {
		req := sampleCreateRequest("missing", "rule")
		if _, err := svc.CreateRule(ctx, req); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})
}

func TestReorderRules(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		rule, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, name))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rule.ID)
	}

	reversed := []string{ids[2], ids[1], ids[0]}
	if err := svc.ReorderRules(ctx, folderID, reversed); err != nil {
		t.Fatal(err)
	}

	assertOrder := func(want []string) {
		t.Helper()
		rules, err := svc.ListRules(ctx, folderID)
		if err != nil {
			t.Fatal(err)
		}
		for i, rule := range rules {
			if rule.ID != want[i] {
				t.Fatalf("position %d holds %s, want %s", i, rule.ID, want[i])
			}
			if rule.Position != i {
				t.Fatalf("rule %s has position %d, want %d", rule.ID, rule.Position, i)
			}
		}
	}
	assertOrder(reversed)

	// Idempotent: the same permutation twice yields identical positions.
	if err := svc.ReorderRules(ctx, folderID, reversed); err != nil {
		t.Fatal(err)
	}
	assertOrder(reversed)
}

func TestReorderRulesRejectsNonPermutations(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a", "b"} {
		rule, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, name))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rule.ID)
	}

	tests := []struct {
		name    string
		ordered []string
	}{
		{"missing id", []string{ids[0]}},
		{"extra id", []string{ids[0], ids[1], "ghost"}},
		{"unknown id", []string{ids[0], "ghost"}},
		{"repeated id", []string{ids[0], ids[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ReorderRules(ctx, folderID, tt.ordered)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}

			// Prior positions stay intact.
			rules, err := svc.ListRules(ctx, folderID)
			if err != nil {
				t.Fatal(err)
			}
			for i, rule := range rules {
				if rule.ID != ids[i] {
					t.Errorf("position %d holds %s after failed reorder, want %s", i, rule.ID, ids[i])
				}
			}
		})
	}
}

func TestDeleteRuleDoesNotCompactPositions(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	var rules []*models.Rule
	for _, name := range []string{"a", "b", "c"} {
		rule, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, name))
		if err != nil {
			t.Fatal(err)
		}
		rules = append(rules, rule)
	}

	if err := svc.DeleteRule(ctx, rules[1].ID); err != nil {
		t.Fatal(err)
	}

	remaining, err := svc.ListRules(ctx, folderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 2 {
		t.Fatalf("got %d rules, want 2", len(remaining))
	}
	// The gap stays; order remains total through (position, id).
	if remaining[0].Position != 0 || remaining[1].Position != 2 {
		t.Errorf("positions after delete = %d, %d, want 0, 2", remaining[0].Position, remaining[1].Position)
	}
}

func TestDuplicateRule(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	original, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "invoices"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "other")); err != nil {
		t.Fatal(err)
	}

	copied, err := svc.DuplicateRule(ctx, original.ID)
	if err != nil {
		t.Fatal(err)
	}

	if copied.ID == original.ID {
		t.Error("duplicate must get a new id")
	}
	if copied.Name != "invoices (copy)" {
		t.Errorf("duplicate name = %q, want %q", copied.Name, "invoices (copy)")
	}
	if copied.Position != 2 {
		t.Errorf("duplicate position = %d, want 2 (previous count)", copied.Position)
	}
	if len(copied.Conditions.Conditions) != 1 || len(copied.Actions) != 1 {
		t.Fatal("duplicate lost conditions or actions")
	}
	if copied.Conditions.Conditions[0].Text.Value != "pdf" {
		t.Error("duplicate conditions differ from original")
	}

	// Deep copy: mutating the duplicate leaves the original untouched.
	copied.Conditions.Conditions[0].Text.Value = "zip"
	reloaded, err := svc.GetRule(ctx, original.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Conditions.Conditions[0].Text.Value != "pdf" {
		t.Error("mutating the duplicate changed the original")
	}
}

func TestNormalizeImportPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantLen int
		wantErr error
	}{
		{"single object wrapped", `{"id":"r1"}`, 1, nil},
		{"list passes through", `[{"id":"r1"},{"id":"r2"}]`, 2, nil},
		{"whitespace around object", "\n  {\"id\":\"r1\"}  \n", 1, nil},
		{"empty input", ``, 0, domain.ErrEmptyPayload},
		{"blank input", "  \n\t ", 0, domain.ErrEmptyPayload},
		{"truncated json", `{`, 0, domain.ErrInvalidFormat},
		{"number", `42`, 0, domain.ErrInvalidShape},
		{"string", `"rules"`, 0, domain.ErrInvalidShape},
		{"null", `null`, 0, domain.ErrInvalidShape},
		{"empty list", `[]`, 0, domain.ErrInvalidShape},
		{"list of primitives", `[1,2]`, 0, domain.ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NormalizeImportPayload([]byte(tt.payload))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(items) != tt.wantLen {
				t.Errorf("got %d items, want %d", len(items), tt.wantLen)
			}
		})
	}
}

func TestImportRulesAppendsAtTail(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "existing")); err != nil {
		t.Fatal(err)
	}

	exported, err := svc.ExportRules(ctx, folderID)
	if err != nil {
		t.Fatal(err)
	}

	imported, err := svc.ImportRules(ctx, folderID, exported)
	if err != nil {
		t.Fatal(err)
	}
	if len(imported) != 1 {
		t.Fatalf("imported %d rules, want 1", len(imported))
	}
	if imported[0].Position != 1 {
		t.Errorf("imported rule position = %d, want 1", imported[0].Position)
	}

	rules, err := svc.ListRules(ctx, folderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 {
		t.Errorf("folder has %d rules after import, want 2", len(rules))
	}
}

func TestImportRulesRejectsInvalidRule(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	// Object shape is fine but the rule has no actions.
	payload := []byte(`{"name":"broken","conditions":{"matchType":"all","conditions":[]}}`)
	if _, err := svc.ImportRules(ctx, folderID, payload); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Nothing was created.
	rules, err := svc.ListRules(ctx, folderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 0 {
		t.Errorf("failed import created %d rules", len(rules))
	}
}

func TestUpdateRuleKeepsPosition(t *testing.T) {
	svc, _, _, folderID := newRuleFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "a")); err != nil {
		t.Fatal(err)
	}
	rule, err := svc.CreateRule(ctx, sampleCreateRequest(folderID, "b"))
	if err != nil {
		t.Fatal(err)
	}

	name := "renamed"
	stop := true
	updated, err := svc.UpdateRule(ctx, rule.ID, &models.UpdateRuleRequest{
		Name:           &name,
		StopProcessing: &stop,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "renamed" || !updated.StopProcessing {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Position != rule.Position {
		t.Errorf("update changed position from %d to %d", rule.Position, updated.Position)
	}
}
