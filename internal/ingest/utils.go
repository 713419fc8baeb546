package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/case-summarizer/constants"
)

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AllowedExt checks if a file extension is accepted for upload.
func AllowedExt(ext string) bool {
	_, ok := constants.ClassifyExt(ext)
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// SanitizeFilename drops any directory part and replaces characters outside
// [A-Za-z0-9._-] with '_'. It returns "" if nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = reUnsafeName.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return ""
	}
	return name
}

// NewCaseID returns CASE-<year>-<first 8 hex chars of a random UUID>.
func NewCaseID(now time.Time) string {
	return fmt.Sprintf("CASE-%d-%s", now.Year(), uuid.NewString()[:8])
}
