package testutil

import (
	"context"
	"sync"
	"time"

	"sortd/internal/domain/models"
	"sortd/internal/match"
)

// StubEngine records restore calls and serves canned walk/snapshot facts.
type StubEngine struct {
	mu       sync.Mutex
	paused   bool
	restores [][2]string // {currentPath, originalPath}

	// RestoreErr is returned by Restore when set.
	RestoreErr error
	// Files is returned by Walk; Snapshot looks paths up in it.
	Files []match.FileFacts
}

func NewStubEngine() *StubEngine {
	return &StubEngine{}
}

func (e *StubEngine) Status(ctx context.Context) (*models.EngineStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &models.EngineStatus{Paused: e.paused}, nil
}

func (e *StubEngine) SetPaused(ctx context.Context, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
	return nil
}

func (e *StubEngine) Restore(ctx context.Context, currentPath, originalPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.RestoreErr != nil {
		return e.RestoreErr
	}
	e.restores = append(e.restores, [2]string{currentPath, originalPath})
	return nil
}

func (e *StubEngine) Snapshot(ctx context.Context, filePath string) (*match.FileFacts, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.Files {
		if e.Files[i].Path == filePath {
			facts := e.Files[i]
			return &facts, nil
		}
	}
	facts := match.FactsForPath(filePath, time.Now())
	return &facts, nil
}

func (e *StubEngine) Walk(ctx context.Context, folderPath string, scanDepth int) ([]match.FileFacts, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]match.FileFacts, len(e.Files))
	copy(out, e.Files)
	return out, nil
}

// Restores returns the recorded restore calls.
func (e *StubEngine) Restores() [][2]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][2]string, len(e.restores))
	copy(out, e.restores)
	return out
}
