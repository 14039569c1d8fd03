package service

import (
	"context"
	"testing"
	"time"

	"sortd/internal/domain/models"
	"sortd/internal/match"
	"sortd/internal/testutil"
)

func TestPreviewRule(t *testing.T) {
	ruleRepo := testutil.NewMemRuleRepository()
	folderRepo := testutil.NewMemFolderRepository().WithRules(ruleRepo)
	ruleSvc := NewRuleService(ruleRepo, folderRepo, testutil.PassthroughTx{}, testutil.NewStubIDGenerator(), discardLogger())
	eng := testutil.NewStubEngine()
	svc := NewEngineService(eng, ruleRepo, folderRepo, &match.Evaluator{}, discardLogger())
	ctx := context.Background()

	folder := &models.Folder{ID: "folder-1", Path: "/watch", Name: "Watch", Enabled: true}
	if err := folderRepo.Create(ctx, folder); err != nil {
		t.Fatal(err)
	}
	rule, err := ruleSvc.CreateRule(ctx, sampleCreateRequest(folder.ID, "pdfs"))
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	pdf := match.FactsForPath("/watch/a.pdf", now)
	txt := match.FactsForPath("/watch/b.txt", now)
	eng.Files = []match.FileFacts{pdf, txt}

	paths, err := svc.PreviewRule(ctx, rule.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != "/watch/a.pdf" {
		t.Errorf("preview matched %v, want only the pdf", paths)
	}

	matched, err := svc.PreviewFile(ctx, rule.ID, "/watch/a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Error("PreviewFile should match the pdf")
	}

	matched, err = svc.PreviewFile(ctx, rule.ID, "/watch/b.txt")
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Error("PreviewFile should not match the txt")
	}
}

func TestTogglePaused(t *testing.T) {
	eng := testutil.NewStubEngine()
	svc := NewEngineService(eng, testutil.NewMemRuleRepository(), testutil.NewMemFolderRepository(), &match.Evaluator{}, discardLogger())
	ctx := context.Background()

	status, err := svc.TogglePaused(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Paused {
		t.Error("first toggle should pause")
	}

	status, err = svc.TogglePaused(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status.Paused {
		t.Error("second toggle should resume")
	}
}
