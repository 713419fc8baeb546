package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

type SummaryStage struct {
	SummariesRepo repository.SummaryRepository
	CasesRepo     repository.CaseRepository
	Extractor     *fir.Extractor
	Logger        *slog.Logger
}

func NewSummaryStage(summaries repository.SummaryRepository, cases repository.CaseRepository, x *fir.Extractor, logger *slog.Logger) *SummaryStage {
	if logger == nil {
		logger = slog.Default()
	}
	if x == nil {
		x = fir.New()
	}
	return &SummaryStage{SummariesRepo: summaries, CasesRepo: cases, Extractor: x, Logger: logger}
}

// Run summarises the stored text of c, validates the result, persists it and
// marks the case COMPLETED. started is when processing of the case began.
func (s *SummaryStage) Run(ctx context.Context, c *entity.Case, started time.Time) (*entity.CaseSummary, error) {
	sum := s.Extractor.Extract(c.RawText)
	if err := fir.ValidateSummary(sum); err != nil {
		return nil, fmt.Errorf("summary failed validation: %w", err)
	}
	if sum.IsEmpty() {
		s.Logger.WarnContext(ctx, "no report fields recognised", "words", c.WordCount)
	}

	now := time.Now().UTC()
	out := &entity.CaseSummary{
		CaseID:       c.ID,
		Summary:      sum,
		ProcessingMS: elapsedMS(started),
		CreatedAt:    now,
	}
	if err := s.SummariesRepo.Save(ctx, out); err != nil {
		return nil, err
	}
	if err := s.CasesRepo.MarkCompleted(ctx, c.ID, now); err != nil {
		return out, err
	}
	s.Logger.InfoContext(ctx, "case summarised",
		"fir_number", sum.Entities.FIRNumber,
		"sections", len(sum.Entities.Sections),
		"processing_ms", out.ProcessingMS,
	)
	return out, nil
}
