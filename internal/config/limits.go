package config

const (
	// MaxFolderNameLength is the maximum length for watched-folder display
	// names. Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxRuleNameLength is the maximum length for rule names.
	// Same as folder names for consistency.
	MaxRuleNameLength = 255

	// MaxConditionDepth is the maximum nesting depth for condition groups.
	// Imported rules beyond this depth are rejected with a validation error
	// instead of risking unbounded recursion during evaluation.
	MaxConditionDepth = 64

	// MaxImportPayloadBytes caps the size of an imported rule payload.
	MaxImportPayloadBytes = 4 << 20

	// UnlimitedScanDepth marks a watched folder whose subfolders are scanned
	// without a recursion bound. It is the only negative scan depth allowed.
	UnlimitedScanDepth = -1
)
