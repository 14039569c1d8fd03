package models

import (
	"fmt"

	"sortd/internal/domain"
)

// ActionType discriminates the Action variant.
type ActionType string

const (
	ActionMove              ActionType = "move"
	ActionCopy              ActionType = "copy"
	ActionRename            ActionType = "rename"
	ActionSortIntoSubfolder ActionType = "sortIntoSubfolder"
	ActionArchive           ActionType = "archive"
	ActionUnarchive         ActionType = "unarchive"
	ActionDelete            ActionType = "delete"
	ActionDeletePermanently ActionType = "deletePermanently"
	ActionRunScript         ActionType = "runScript"
	ActionNotify            ActionType = "notify"
	ActionOpen              ActionType = "open"
	ActionPause             ActionType = "pause"
	ActionContinue          ActionType = "continue"
	ActionIgnore            ActionType = "ignore"
)

// ConflictResolution is the policy applied when an action's target already
// exists.
type ConflictResolution string

const (
	ConflictRename  ConflictResolution = "rename"
	ConflictReplace ConflictResolution = "replace"
	ConflictSkip    ConflictResolution = "skip"
)

// Action is an opaque execution request passed, in order, to the external
// executor. The core only owns its representation: every variant must
// round-trip through JSON without loss.
type Action struct {
	Type ActionType `json:"type"`

	Destination    string             `json:"destination,omitempty"`    // move/copy/archive/unarchive target directory
	Pattern        string             `json:"pattern,omitempty"`        // rename pattern or sortIntoSubfolder template
	Conflict       ConflictResolution `json:"conflict,omitempty"`       // move/copy/rename/sortIntoSubfolder/archive
	SkipDuplicates bool               `json:"skipDuplicates,omitempty"` // move/copy content-identity short-circuit
	Script         string             `json:"script,omitempty"`         // runScript
	Message        string             `json:"message,omitempty"`        // notify
	Application    string             `json:"application,omitempty"`    // open (empty = system default)
	Seconds        int                `json:"seconds,omitempty"`        // pause duration
}

// carriesConflict lists the action types that apply a conflict-resolution
// policy when their target already exists.
func (t ActionType) carriesConflict() bool {
	switch t {
	case ActionMove, ActionCopy, ActionRename, ActionSortIntoSubfolder, ActionArchive:
		return true
	}
	return false
}

// Validate checks the variant shape. Like conditions, malformed actions are
// rejected at construction/import time.
func (a *Action) Validate() error {
	switch a.Type {
	case ActionMove, ActionCopy:
		if a.Destination == "" {
			return fmt.Errorf("%s action requires a destination: %w", a.Type, domain.ErrValidation)
		}
	case ActionRename, ActionSortIntoSubfolder:
		if a.Pattern == "" {
			return fmt.Errorf("%s action requires a pattern: %w", a.Type, domain.ErrValidation)
		}
	case ActionArchive:
		if a.Destination == "" {
			return fmt.Errorf("archive action requires a destination: %w", domain.ErrValidation)
		}
	case ActionUnarchive, ActionDelete, ActionDeletePermanently, ActionContinue, ActionIgnore, ActionOpen:
	case ActionRunScript:
		if a.Script == "" {
			return fmt.Errorf("runScript action requires a script: %w", domain.ErrValidation)
		}
	case ActionNotify:
		if a.Message == "" {
			return fmt.Errorf("notify action requires a message: %w", domain.ErrValidation)
		}
	case ActionPause:
		if a.Seconds <= 0 {
			return fmt.Errorf("pause action requires a positive duration: %w", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown action type %q: %w", a.Type, domain.ErrValidation)
	}

	if a.Conflict != "" {
		if !a.Type.carriesConflict() {
			return fmt.Errorf("%s action does not take a conflict policy: %w", a.Type, domain.ErrValidation)
		}
		switch a.Conflict {
		case ConflictRename, ConflictReplace, ConflictSkip:
		default:
			return fmt.Errorf("unknown conflict resolution %q: %w", a.Conflict, domain.ErrValidation)
		}
	}
	if a.SkipDuplicates && a.Type != ActionMove && a.Type != ActionCopy {
		return fmt.Errorf("%s action does not take skipDuplicates: %w", a.Type, domain.ErrValidation)
	}
	return nil
}

// Reversible reports whether the executor records an undo entry for this
// action type. Only actions that relocate a file can be walked back.
func (t ActionType) Reversible() bool {
	switch t {
	case ActionMove, ActionRename, ActionSortIntoSubfolder:
		return true
	}
	return false
}
