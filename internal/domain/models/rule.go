package models

import (
	"time"
)

// Rule belongs to exactly one folder. Position is zero-based and defines
// evaluation and display order within the folder; positions are dense 0..N-1
// after a reorder, and merely strictly ordered (ties broken by id) between
// deletes.
type Rule struct {
	ID             string         `json:"id" db:"id"`
	FolderID       string         `json:"folder_id" db:"folder_id"`
	Name           string         `json:"name" db:"name"`
	Enabled        bool           `json:"enabled" db:"enabled"`
	StopProcessing bool           `json:"stop_processing" db:"stop_processing"`
	Conditions     ConditionGroup `json:"conditions" db:"conditions"`
	Actions        []Action       `json:"actions" db:"actions"`
	Position       int            `json:"position" db:"position"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateRuleRequest struct {
	FolderID       string         `json:"folder_id"`
	Name           string         `json:"name"`
	Enabled        *bool          `json:"enabled,omitempty"` // defaults to true
	StopProcessing bool           `json:"stop_processing"`
	Conditions     ConditionGroup `json:"conditions"`
	Actions        []Action       `json:"actions"`
}

// UpdateRuleRequest replaces the named parts of a rule. Position is only
// changed through reorder, never here.
type UpdateRuleRequest struct {
	Name           *string         `json:"name,omitempty"`
	StopProcessing *bool           `json:"stop_processing,omitempty"`
	Conditions     *ConditionGroup `json:"conditions,omitempty"`
	Actions        *[]Action       `json:"actions,omitempty"`
}

// ReorderRequest carries the complete set of the folder's rule ids in the
// caller's desired order.
type ReorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}
