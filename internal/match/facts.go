// Package match implements the pure condition evaluator and the
// human-readable condition formatter. Both operate on validated data and
// never perform I/O themselves; the shell and pattern capabilities are
// injected.
package match

import (
	"path/filepath"
	"strings"
	"time"

	"sortd/internal/domain/models"
)

// FileFacts is the snapshot of a file that conditions are evaluated against.
// Now is the evaluation instant; carrying it here keeps evaluation pure and
// deterministic in tests.
type FileFacts struct {
	Path     string
	Name     string // base name without extension
	Ext      string // extension without the leading dot
	FullName string // base name with extension
	Size     int64  // bytes
	Created  time.Time
	Modified time.Time
	Added    time.Time
	Kind     models.FileKind
	Now      time.Time

	// Contents lazily provides extracted text for contents conditions.
	// nil means no content extraction is available and contents conditions
	// evaluate against the empty string.
	Contents func() string
}

// FactsForPath builds the name-derived facts for a path. Size, timestamps
// and kind are filled in by the caller from whatever stat source it has.
func FactsForPath(path string, now time.Time) FileFacts {
	full := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(full), ".")
	name := strings.TrimSuffix(full, filepath.Ext(full))
	return FileFacts{
		Path:     path,
		Name:     name,
		Ext:      ext,
		FullName: full,
		Now:      now,
	}
}

// KindForExtension classifies a file by its extension (without dot).
// Directories are classified by the caller as KindFolder before this runs.
func KindForExtension(ext string) models.FileKind {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp", "heic", "svg", "raw":
		return models.KindImage
	case "mp4", "mov", "avi", "mkv", "wmv", "flv", "webm", "m4v":
		return models.KindVideo
	case "mp3", "wav", "flac", "aac", "ogg", "m4a", "wma", "aiff":
		return models.KindAudio
	case "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "md", "rtf", "odt", "csv", "pages", "numbers", "key":
		return models.KindDocument
	case "zip", "tar", "gz", "bz2", "xz", "7z", "rar", "dmg", "iso":
		return models.KindArchive
	case "go", "py", "js", "ts", "c", "cpp", "h", "java", "rb", "rs", "sh", "swift", "kt", "php", "html", "css", "sql", "json", "yaml", "yml", "toml", "xml":
		return models.KindCode
	case "":
		return models.KindFile
	default:
		return models.KindOther
	}
}
