package constants

import "strings"

// FileType is the upload classification that selects a text extraction strategy.
type FileType string

const (
	FileTypeText  FileType = "text"
	FileTypeImage FileType = "image"
	FileTypeAudio FileType = "audio"
)

// MaxFileSize is the upload limit in bytes.
const MaxFileSize = 50 << 20

// AllowedExtensions maps each accepted extension (lowercase, no dot) to its type.
var AllowedExtensions = map[string]FileType{
	"txt":  FileTypeText,
	"docx": FileTypeText,
	"doc":  FileTypeText,
	"pdf":  FileTypeImage,
	"jpg":  FileTypeImage,
	"jpeg": FileTypeImage,
	"png":  FileTypeImage,
	"tiff": FileTypeImage,
	"bmp":  FileTypeImage,
	"mp3":  FileTypeAudio,
	"wav":  FileTypeAudio,
	"m4a":  FileTypeAudio,
	"ogg":  FileTypeAudio,
	"flac": FileTypeAudio,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ClassifyExt returns the file type for ext, or false if ext is not accepted.
func ClassifyExt(ext string) (FileType, bool) {
	ft, ok := AllowedExtensions[NormalizeExt(ext)]
	return ft, ok
}

// ParseFileType accepts "text", "image" or "audio" in any case.
func ParseFileType(s string) (FileType, bool) {
	switch ft := FileType(strings.ToLower(strings.TrimSpace(s))); ft {
	case FileTypeText, FileTypeImage, FileTypeAudio:
		return ft, true
	}
	return "", false
}

// ExtensionsFor returns the accepted extensions of type ft.
func ExtensionsFor(ft FileType) map[string]struct{} {
	out := map[string]struct{}{}
	for ext, t := range AllowedExtensions {
		if t == ft {
			out[ext] = struct{}{}
		}
	}
	return out
}
