package entity

import (
	"time"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
)

// Case represents an uploaded report for data transfer between layers.
type Case struct {
	ID             string               `json:"caseId"`
	FileName       string               `json:"fileName"`
	FileType       constants.FileType   `json:"fileType"`
	FilePath       string               `json:"filePath"`
	FileSize       int64                `json:"fileSize"`
	ContentHash    string               `json:"contentHash"`
	Status         constants.CaseStatus `json:"status"`
	Error          string               `json:"error,omitempty"`
	UploadedAt     time.Time            `json:"uploadedAt"`
	ProcessedAt    *time.Time           `json:"processedAt,omitempty"`
	RawText        string               `json:"-"`
	Language       string               `json:"language,omitempty"`
	WordCount      int                  `json:"wordCount"`
	ReadingMinutes int                  `json:"readingMinutes"`
}

// HasText reports whether text extraction produced anything to summarise.
func (c *Case) HasText() bool {
	return c != nil && c.RawText != ""
}

// CaseSummary is the stored extraction result for a case.
type CaseSummary struct {
	CaseID       string      `json:"caseId"`
	Summary      fir.Summary `json:"summary"`
	ProcessingMS int64       `json:"processingMs"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// TextStats describes extracted text.
type TextStats struct {
	Language       string
	WordCount      int
	ReadingMinutes int
}
