// Package engine is the in-process adapter for the automation engine's
// command surface. The watcher/executor that actually applies rules is a
// separate process; this adapter covers the pieces the backend needs
// directly, which is undo restores, dry-run previews and the pause flag.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sortd/internal/domain"
	"sortd/internal/domain/models"
	"sortd/internal/domain/services"
	"sortd/internal/match"
)

// LocalEngine implements the engine command surface against the local
// filesystem. Safe for concurrent use.
type LocalEngine struct {
	paused atomic.Bool
	logger *slog.Logger

	mu       sync.Mutex
	restores int
}

// NewLocalEngine creates a local engine adapter
func NewLocalEngine(logger *slog.Logger) *LocalEngine {
	return &LocalEngine{logger: logger}
}

// Status reads the engine's process-wide snapshot
func (e *LocalEngine) Status(ctx context.Context) (*models.EngineStatus, error) {
	e.mu.Lock()
	restores := e.restores
	e.mu.Unlock()

	return &models.EngineStatus{
		Paused:   e.paused.Load(),
		Counters: map[string]int{"restores": restores},
	}, nil
}

// SetPaused pauses or resumes the automation loop
func (e *LocalEngine) SetPaused(ctx context.Context, paused bool) error {
	e.paused.Store(paused)
	return nil
}

// Restore moves currentPath back to originalPath for an undo. It fails with
// a conflict when the file is no longer where the undo entry expects it, or
// when something else now occupies the original path.
func (e *LocalEngine) Restore(ctx context.Context, currentPath, originalPath string) error {
	if _, err := os.Stat(currentPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file is no longer at %s", currentPath),
				ResourceType: "undo",
			}
		}
		return &domain.TransportError{Message: "failed to inspect file", Cause: err}
	}
	if _, err := os.Stat(originalPath); err == nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("another file now occupies %s", originalPath),
			ResourceType: "undo",
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &domain.TransportError{Message: "failed to inspect destination", Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(originalPath), 0o755); err != nil {
		return &domain.TransportError{Message: "failed to recreate destination directory", Cause: err}
	}
	if err := os.Rename(currentPath, originalPath); err != nil {
		return &domain.TransportError{Message: "failed to restore file", Cause: err}
	}

	e.mu.Lock()
	e.restores++
	e.mu.Unlock()

	e.logger.Info("file restored", "from", currentPath, "to", originalPath)
	return nil
}

// Snapshot stats a single file into evaluator facts
func (e *LocalEngine) Snapshot(ctx context.Context, filePath string) (*match.FileFacts, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", filePath, domain.ErrNotFound)
		}
		return nil, &domain.TransportError{Message: "failed to inspect file", Cause: err}
	}

	facts := e.factsFromInfo(filePath, info, time.Now())
	return &facts, nil
}

// Walk lists the files of a watched directory as evaluator facts, honoring
// scanDepth (0 = this directory only, -1 = unlimited). Directories
// themselves are not listed; a folder-kind condition targets entries seen
// through their parent scan, which previews do not need.
func (e *LocalEngine) Walk(ctx context.Context, folderPath string, scanDepth int) ([]match.FileFacts, error) {
	root := filepath.Clean(folderPath)
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("folder %s: %w", root, domain.ErrNotFound)
		}
		return nil, &domain.TransportError{Message: "failed to open folder", Cause: err}
	}

	now := time.Now()
	var facts []match.FileFacts
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if scanDepth >= 0 && pathDepth(root, path) > scanDepth {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		facts = append(facts, e.factsFromInfo(path, info, now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return facts, nil
}

func (e *LocalEngine) factsFromInfo(path string, info fs.FileInfo, now time.Time) match.FileFacts {
	facts := match.FactsForPath(path, now)
	facts.Size = info.Size()
	facts.Modified = info.ModTime()
	// Creation and added times are not portably available; the modification
	// time is the closest stat-backed stand-in.
	facts.Created = info.ModTime()
	facts.Added = info.ModTime()
	if info.IsDir() {
		facts.Kind = models.KindFolder
	} else {
		facts.Kind = match.KindForExtension(facts.Ext)
	}
	facts.Contents = func() string {
		raw, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return facts
}

// pathDepth counts directory steps from root to path. A direct child of
// root has depth 1.
func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// ShellProbe runs shellScript conditions through `sh -c` with the file path
// appended as the positional argument. Exit status zero means the condition
// matched.
type ShellProbe struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// Probe implements match.ShellProber
func (p ShellProbe) Probe(command, filePath string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command, "sh", filePath)
	if err := cmd.Run(); err != nil {
		if p.Logger != nil {
			p.Logger.Debug("shell probe did not match", "file", filePath, "error", err)
		}
		return false
	}
	return true
}

var _ services.Engine = (*LocalEngine)(nil)
var _ match.ShellProber = ShellProbe{}
