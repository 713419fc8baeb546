// Package pipeline runs an ingested case through text extraction and report
// summarisation.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/logging"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

// Processor coordinates the text stage then the summary stage.
type Processor struct {
	Logger      *slog.Logger
	Text        *TextStage
	Summary     *SummaryStage
	CasesRepo   repository.CaseRepository
	MetricsRepo repository.MetricsRepository
}

func NewProcessor(logger *slog.Logger, text *TextStage, summary *SummaryStage, cases repository.CaseRepository, metrics repository.MetricsRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Summary: summary, CasesRepo: cases, MetricsRepo: metrics}
}

// ProcessCase extracts, summarises and stores the result for caseID. Any
// failure after the case is found marks it FAILED with the error message.
func (p *Processor) ProcessCase(ctx context.Context, caseID string) (*entity.CaseSummary, error) {
	ctx = logging.WithAttrs(common.WithCaseID(ctx, caseID), slog.String("case_id", caseID))
	started := time.Now()

	c, res, err := p.Text.Run(ctx, caseID)
	if err != nil {
		p.Logger.ErrorContext(ctx, "text stage failed", "error", err)
		return nil, p.fail(ctx, c, err)
	}
	p.Logger.DebugContext(ctx, "text stage ok", "method", res.Method, "pages", res.Pages)

	out, err := p.Summary.Run(ctx, c, started)
	if err != nil {
		p.Logger.ErrorContext(ctx, "summary stage failed", "error", err)
		return nil, p.fail(ctx, c, err)
	}

	if p.MetricsRepo != nil {
		now := time.Now()
		if err := p.MetricsRepo.Record(ctx, repository.MetricProcessingMS, float64(out.ProcessingMS), now); err != nil {
			p.Logger.WarnContext(ctx, "failed to record metric", "metric", repository.MetricProcessingMS, "error", err)
		}
		if err := p.MetricsRepo.Record(ctx, repository.MetricTextWords, float64(c.WordCount), now); err != nil {
			p.Logger.WarnContext(ctx, "failed to record metric", "metric", repository.MetricTextWords, "error", err)
		}
	}
	return out, nil
}

// fail records cause on the case, if it exists, and returns cause.
func (p *Processor) fail(ctx context.Context, c *entity.Case, cause error) error {
	if c == nil || errors.Is(cause, common.ErrNotFound) {
		return cause
	}
	// the job context may already be done; the failure must still be stored
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.CasesRepo.MarkFailed(wctx, c.ID, cause.Error(), time.Now().UTC()); err != nil {
		p.Logger.ErrorContext(ctx, "failed to mark case failed", "error", err)
	}
	return cause
}
