package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/case-summarizer/internal/entity"
)

// Job asks for one case to be processed.
type Job struct {
	CaseID      string
	SubmittedAt time.Time
	RequestID   string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// CaseProcessor is implemented by *pipeline.Processor.
type CaseProcessor interface {
	ProcessCase(ctx context.Context, caseID string) (*entity.CaseSummary, error)
}
