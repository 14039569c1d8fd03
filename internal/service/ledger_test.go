package service

import (
	"context"
	"errors"
	"testing"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/services"
	"sortd/internal/testutil"
)

func newLedgerFixture(t *testing.T) (services.LedgerService, *testutil.MemLogRepository, *testutil.StubEngine) {
	t.Helper()
	repo := testutil.NewMemLogRepository()
	eng := testutil.NewStubEngine()
	svc := NewLedgerService(repo, testutil.PassthroughTx{}, eng, testutil.FixedClock(), testutil.NewStubIDGenerator(), discardLogger())
	return svc, repo, eng
}

func moveRequest(path string) *models.AppendLogRequest {
	return &models.AppendLogRequest{
		FilePath:   path,
		ActionType: models.ActionMove,
		Detail:     &models.LogDetail{Source: path, Destination: "/archive" + path},
		Status:     models.StatusSuccess,
		Undo: &models.UndoPaths{
			OriginalPath: path,
			CurrentPath:  "/archive" + path,
		},
	}
}

type recordingObserver struct {
	entries []models.LogEntry
}

func (o *recordingObserver) LogAppended(entry models.LogEntry) {
	o.entries = append(o.entries, entry)
}

func TestAppendRecordsUndoForReversibleActions(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)
	ctx := context.Background()

	entry, err := svc.Append(ctx, moveRequest("/watch/a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Error("append must assign id and timestamp")
	}

	undos, err := svc.ListUndo(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(undos) != 1 {
		t.Fatalf("got %d undo entries, want 1", len(undos))
	}
	if undos[0].LogID != entry.ID {
		t.Errorf("undo references log %s, want %s", undos[0].LogID, entry.ID)
	}
	if undos[0].OriginalPath != "/watch/a.pdf" || undos[0].CurrentPath != "/archive/watch/a.pdf" {
		t.Errorf("undo paths = %q -> %q", undos[0].CurrentPath, undos[0].OriginalPath)
	}
}

func TestAppendRejectsUndoForIrreversibleActions(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)

	req := moveRequest("/watch/a.pdf")
	req.ActionType = models.ActionCopy
	if _, err := svc.Append(context.Background(), req); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for copy undo, got %v", err)
	}
}

func TestAppendValidation(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)
	ctx := context.Background()

	missingPath := &models.AppendLogRequest{ActionType: models.ActionMove, Status: models.StatusSuccess}
	if _, err := svc.Append(ctx, missingPath); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for missing path, got %v", err)
	}

	badStatus := &models.AppendLogRequest{FilePath: "/a", ActionType: models.ActionMove, Status: "done"}
	if _, err := svc.Append(ctx, badStatus); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestAppendNotifiesObservers(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)
	obs := &recordingObserver{}
	svc.Subscribe(obs)

	if _, err := svc.Append(context.Background(), moveRequest("/watch/a.pdf")); err != nil {
		t.Fatal(err)
	}
	if len(obs.entries) != 1 {
		t.Fatalf("observer saw %d entries, want 1", len(obs.entries))
	}
	if obs.entries[0].FilePath != "/watch/a.pdf" {
		t.Errorf("observer saw path %q", obs.entries[0].FilePath)
	}
}

func TestExecuteUndoRestoresAndAppendsReversal(t *testing.T) {
	svc, _, eng := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := svc.Append(ctx, moveRequest("/watch/a.pdf")); err != nil {
		t.Fatal(err)
	}
	undos, err := svc.ListUndo(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	reversal, err := svc.ExecuteUndo(ctx, undos[0].ID)
	if err != nil {
		t.Fatal(err)
	}

	restores := eng.Restores()
	if len(restores) != 1 {
		t.Fatalf("engine saw %d restores, want 1", len(restores))
	}
	if restores[0][0] != "/archive/watch/a.pdf" || restores[0][1] != "/watch/a.pdf" {
		t.Errorf("restore = %v", restores[0])
	}

	if reversal.FilePath != "/watch/a.pdf" {
		t.Errorf("reversal path = %q", reversal.FilePath)
	}
	if reversal.Detail == nil || reversal.Detail.Metadata["undo_of"] != undos[0].LogID {
		t.Error("reversal must reference the undone log entry")
	}

	entries, err := svc.ListLog(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("log has %d entries after undo, want 2 (original + reversal)", len(entries))
	}
}

func TestExecuteUndoUnknownID(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)
	if _, err := svc.ExecuteUndo(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestExecuteUndoAfterClearIsNotFound(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := svc.Append(ctx, moveRequest("/watch/a.pdf")); err != nil {
		t.Fatal(err)
	}
	undos, err := svc.ListUndo(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ClearLog(ctx); err != nil {
		t.Fatal(err)
	}

	// The undo entry went away with the log it referenced; not a silent no-op.
	if _, err := svc.ExecuteUndo(ctx, undos[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found after clear, got %v", err)
	}
}

func TestExecuteUndoConflictIsReported(t *testing.T) {
	svc, repo, eng := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := svc.Append(ctx, moveRequest("/watch/a.pdf")); err != nil {
		t.Fatal(err)
	}
	undos, err := svc.ListUndo(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	eng.RestoreErr = &domain.ConflictError{Message: "file moved elsewhere", ResourceType: "undo"}

	if _, err := svc.ExecuteUndo(ctx, undos[0].ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// No reversal entry on failure.
	entries, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("log has %d entries after failed undo, want 1", len(entries))
	}
}
