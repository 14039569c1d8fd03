package service

import (
	"context"
	"testing"

	"sortd/internal/domain/models"
	"sortd/internal/testutil"
)

func TestSettingsDefaultsMerge(t *testing.T) {
	repo := testutil.NewMemSettingsRepository()
	svc, err := NewSettingsService(repo, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	settings, err := svc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Values["dry_run"] != false {
		t.Errorf("dry_run default = %v, want false", settings.Values["dry_run"])
	}
	if settings.Values["log_retention_days"] == nil {
		t.Error("embedded defaults missing log_retention_days")
	}

	// Update overlays and persists only the overlay.
	updated, err := svc.Update(ctx, models.JSONMap{"dry_run": true, "custom_key": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Values["dry_run"] != true {
		t.Error("update did not overlay dry_run")
	}
	if updated.Values["custom_key"] != "x" {
		t.Error("update dropped pass-through key")
	}
	if updated.Values["log_retention_days"] == nil {
		t.Error("defaults must survive an update")
	}

	stored, err := repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stored["log_retention_days"]; ok {
		t.Error("defaults must not be persisted")
	}
}

func TestSettingsNilValueRemovesKey(t *testing.T) {
	repo := testutil.NewMemSettingsRepository()
	svc, err := NewSettingsService(repo, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := svc.Update(ctx, models.JSONMap{"custom_key": "x"}); err != nil {
		t.Fatal(err)
	}
	settings, err := svc.Update(ctx, models.JSONMap{"custom_key": nil})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := settings.Values["custom_key"]; ok {
		t.Error("nil value should remove the key")
	}
}
