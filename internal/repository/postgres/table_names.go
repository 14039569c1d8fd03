package postgres

import "fmt"

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders     string
	Rules       string
	LogEntries  string
	UndoEntries string
	Settings    string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:     fmt.Sprintf("%sfolders", prefix),
		Rules:       fmt.Sprintf("%srules", prefix),
		LogEntries:  fmt.Sprintf("%slog_entries", prefix),
		UndoEntries: fmt.Sprintf("%sundo_entries", prefix),
		Settings:    fmt.Sprintf("%ssettings", prefix),
	}
}
