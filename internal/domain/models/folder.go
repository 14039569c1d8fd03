package models

import (
	"time"
)

// Folder is a watched directory. Rules belong to exactly one folder and are
// deleted with it.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	Name      string    `json:"name" db:"name"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	ScanDepth int       `json:"scan_depth" db:"scan_depth"` // 0 = this directory only, -1 = unlimited
	RuleCount int       `json:"rule_count,omitempty"`       // Computed on list, not stored
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateFolderRequest struct {
	Path      string `json:"path"`
	Name      string `json:"name,omitempty"` // defaults to the path basename
	ScanDepth *int   `json:"scan_depth,omitempty"`
}

// UpdateFolderRequest supports rename, move and settings updates.
// Only provided fields are changed.
type UpdateFolderRequest struct {
	Path      *string `json:"path,omitempty"`
	Name      *string `json:"name,omitempty"`
	ScanDepth *int    `json:"scan_depth,omitempty"`
}
