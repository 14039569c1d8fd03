package models

import (
	"time"
)

// ActionStatus is the outcome recorded for an executed action.
type ActionStatus string

const (
	StatusSuccess ActionStatus = "success"
	StatusError   ActionStatus = "error"
	StatusSkipped ActionStatus = "skipped"
)

// LogDetail is the optional structured payload of a log entry.
type LogDetail struct {
	Source      string            `json:"source,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// LogEntry is the immutable record of one executed action. Entries are
// append-only: never rewritten, deleted only by an explicit bulk clear.
// RuleID and RuleName are absent for manual or system actions.
type LogEntry struct {
	ID           string       `json:"id" db:"id"`
	RuleID       *string      `json:"rule_id,omitempty" db:"rule_id"`
	RuleName     *string      `json:"rule_name,omitempty" db:"rule_name"`
	FilePath     string       `json:"file_path" db:"file_path"`
	ActionType   ActionType   `json:"action_type" db:"action_type"`
	Detail       *LogDetail   `json:"detail,omitempty" db:"detail"`
	Status       ActionStatus `json:"status" db:"status"`
	ErrorMessage *string      `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// UndoEntry pairs a reversible log entry with the paths needed to walk the
// action back. It is created together with the log entry it references and
// consumed by an undo execution, which itself produces a new log entry.
type UndoEntry struct {
	ID           string     `json:"id" db:"id"`
	LogID        string     `json:"log_id" db:"log_id"`
	ActionType   ActionType `json:"action_type" db:"action_type"`
	OriginalPath string     `json:"original_path" db:"original_path"`
	CurrentPath  string     `json:"current_path" db:"current_path"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// AppendLogRequest is the ledger's single write path. Undo carries the
// original/current paths when the action is reversible.
type AppendLogRequest struct {
	RuleID       *string      `json:"rule_id,omitempty"`
	RuleName     *string      `json:"rule_name,omitempty"`
	FilePath     string       `json:"file_path"`
	ActionType   ActionType   `json:"action_type"`
	Detail       *LogDetail   `json:"detail,omitempty"`
	Status       ActionStatus `json:"status"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	Undo         *UndoPaths   `json:"undo,omitempty"`
}

// UndoPaths is the reversible-action payload of an append request.
type UndoPaths struct {
	OriginalPath string `json:"original_path"`
	CurrentPath  string `json:"current_path"`
}
