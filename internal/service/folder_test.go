package service

import (
	"context"
	"errors"
	"testing"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/testutil"
)

func TestAddFolder(t *testing.T) {
	ruleRepo := testutil.NewMemRuleRepository()
	folderRepo := testutil.NewMemFolderRepository().WithRules(ruleRepo)
	svc := NewFolderService(folderRepo, testutil.NewStubIDGenerator(), discardLogger())
	ctx := context.Background()

	folder, err := svc.AddFolder(ctx, &models.CreateFolderRequest{Path: "/watch/downloads/"})
	if err != nil {
		t.Fatal(err)
	}
	if folder.Path != "/watch/downloads" {
		t.Errorf("path = %q, want cleaned %q", folder.Path, "/watch/downloads")
	}
	if folder.Name != "downloads" {
		t.Errorf("name = %q, want base name fallback", folder.Name)
	}
	if !folder.Enabled {
		t.Error("new folders start enabled")
	}
	if folder.ScanDepth != 0 {
		t.Errorf("scan depth = %d, want 0", folder.ScanDepth)
	}

	// Same path again conflicts.
	if _, err := svc.AddFolder(ctx, &models.CreateFolderRequest{Path: "/watch/downloads"}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict for duplicate path, got %v", err)
	}
}

func TestAddFolderScanDepthValidation(t *testing.T) {
	folderRepo := testutil.NewMemFolderRepository()
	svc := NewFolderService(folderRepo, testutil.NewStubIDGenerator(), discardLogger())
	ctx := context.Background()

	unlimited := -1
	folder, err := svc.AddFolder(ctx, &models.CreateFolderRequest{Path: "/a", ScanDepth: &unlimited})
	if err != nil {
		t.Fatal(err)
	}
	if folder.ScanDepth != -1 {
		t.Errorf("scan depth = %d, want -1", folder.ScanDepth)
	}

	negative := -2
	if _, err := svc.AddFolder(ctx, &models.CreateFolderRequest{Path: "/b", ScanDepth: &negative}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for depth -2, got %v", err)
	}

	if _, err := svc.AddFolder(ctx, &models.CreateFolderRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for empty path, got %v", err)
	}
}

func TestUpdateAndToggleFolder(t *testing.T) {
	folderRepo := testutil.NewMemFolderRepository()
	svc := NewFolderService(folderRepo, testutil.NewStubIDGenerator(), discardLogger())
	ctx := context.Background()

	folder, err := svc.AddFolder(ctx, &models.CreateFolderRequest{Path: "/watch/in", Name: "Inbox"})
	if err != nil {
		t.Fatal(err)
	}

	name := "Inbox 2"
	depth := 3
	updated, err := svc.UpdateFolder(ctx, folder.ID, &models.UpdateFolderRequest{Name: &name, ScanDepth: &depth})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Inbox 2" || updated.ScanDepth != 3 {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := svc.ToggleFolder(ctx, folder.ID, false); err != nil {
		t.Fatal(err)
	}
	reloaded, err := svc.GetFolder(ctx, folder.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Enabled {
		t.Error("toggle did not disable the folder")
	}

	if err := svc.RemoveFolder(ctx, folder.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetFolder(ctx, folder.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not-found after remove, got %v", err)
	}
}
