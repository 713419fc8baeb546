// Package ingest stores incoming report files and registers them as cases.
package ingest

import (
	"context"
	"io"
	"time"

	"github.com/joseph-ayodele/case-summarizer/constants"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string               `json:"sourcePath,omitempty"`
	CaseID       string               `json:"caseId,omitempty"`
	FileName     string               `json:"fileName,omitempty"`
	FileType     constants.FileType   `json:"fileType,omitempty"`
	StoredPath   string               `json:"storedPath,omitempty"`
	Size         int64                `json:"size,omitempty"`
	Deduplicated bool                 `json:"deduplicated"`
	HashHex      string               `json:"hash,omitempty"`
	Status       constants.CaseStatus `json:"status,omitempty"`
	UploadedAt   time.Time            `json:"uploadedAt"`
	Err          string               `json:"error,omitempty"`
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32 `json:"scanned"`
	Matched      uint32 `json:"matched"`
	Succeeded    uint32 `json:"succeeded"`
	Deduplicated uint32 `json:"deduplicated"`
	Failed       uint32 `json:"failed"`
}

// Ingestor is the behavior the server and CLI depend on.
type Ingestor interface {
	// IngestUpload stores the content read from r under filename.
	IngestUpload(ctx context.Context, filename string, r io.Reader) (IngestionResult, error)
	// IngestPath ingests a single file from disk.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory ingests all supported files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
