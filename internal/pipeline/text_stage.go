package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/case-summarizer/internal/core/textextract"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

// TextExtractor is implemented by *textextract.Extractor.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (textextract.Result, error)
}

type TextStage struct {
	CasesRepo     repository.CaseRepository
	TextExtractor TextExtractor
	Logger        *slog.Logger
}

func NewTextStage(cases repository.CaseRepository, tx TextExtractor, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextStage{CasesRepo: cases, TextExtractor: tx, Logger: logger}
}

// Run moves the case to PROCESSING, extracts its text and stores it together
// with the text statistics. The summary stage is NOT called.
func (s *TextStage) Run(ctx context.Context, caseID string) (*entity.Case, textextract.Result, error) {
	c, err := s.CasesRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, textextract.Result{}, fmt.Errorf("get case: %w", err)
	}
	if err := s.CasesRepo.MarkProcessing(ctx, c.ID); err != nil {
		return c, textextract.Result{}, err
	}

	res, err := s.TextExtractor.Extract(ctx, c.FilePath)
	if err != nil {
		return c, res, fmt.Errorf("extract text: %w", err)
	}
	for _, w := range res.Warnings {
		s.Logger.WarnContext(ctx, "text extraction warning", "warning", w)
	}

	stats := textextract.Analyze(res.Text)
	if err := s.CasesRepo.SaveText(ctx, c.ID, res.Text, stats); err != nil {
		return c, res, err
	}
	c.RawText = res.Text
	c.Language = stats.Language
	c.WordCount = stats.WordCount
	c.ReadingMinutes = stats.ReadingMinutes

	s.Logger.InfoContext(ctx, "case text stored",
		"method", res.Method,
		"pages", res.Pages,
		"words", stats.WordCount,
		"language", stats.Language,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return c, res, nil
}

func elapsedMS(since time.Time) int64 {
	return time.Since(since).Milliseconds()
}
