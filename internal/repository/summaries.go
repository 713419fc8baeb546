package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
)

type SummaryRepository interface {
	Save(ctx context.Context, s *entity.CaseSummary) error
	Get(ctx context.Context, caseID string) (*entity.CaseSummary, error)
}

const summariesTable = "summaries"

var summaryColumns = []string{"case_id", "overview", "key_points", "entities", "timeline", "processing_ms", "created_at"}

type summaryRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewSummaryRepository(db *DB, logger *slog.Logger) SummaryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &summaryRepo{db: db, logger: logger}
}

// Save inserts the summary or replaces the stored one for the same case.
func (r *summaryRepo) Save(ctx context.Context, s *entity.CaseSummary) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	keyPoints, err := json.Marshal(s.Summary.KeyPoints)
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	ents, err := json.Marshal(s.Summary.Entities)
	if err != nil {
		return fmt.Errorf("marshal entities: %w", err)
	}
	timeline, err := json.Marshal(s.Summary.Timeline)
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}

	ins := r.db.builder().Insert(summariesTable).
		Columns(summaryColumns...).
		Values(s.CaseID, s.Summary.Overview, string(keyPoints), string(ents), string(timeline), s.ProcessingMS, formatTime(s.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("case_id"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := r.db.exec(ctx, ins); err != nil {
		r.logger.Error("failed to save summary", "case_id", s.CaseID, "error", err)
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (r *summaryRepo) Get(ctx context.Context, caseID string) (*entity.CaseSummary, error) {
	b := r.db.builder()
	sel := b.Select(summaryColumns...).From(b.Table(summariesTable)).Where(entsql.EQ("case_id", caseID))

	var (
		out                       entity.CaseSummary
		keyPoints, ents, timeline string
		createdAt                 string
	)
	err := r.db.queryRow(ctx, sel).Scan(&out.CaseID, &out.Summary.Overview, &keyPoints, &ents, &timeline, &out.ProcessingMS, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summary %s: %w", caseID, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get summary", "case_id", caseID, "error", err)
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if err := decodeSummary(&out.Summary, keyPoints, ents, timeline); err != nil {
		return nil, err
	}
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return &out, nil
}

func decodeSummary(s *fir.Summary, keyPoints, ents, timeline string) error {
	if err := json.Unmarshal([]byte(keyPoints), &s.KeyPoints); err != nil {
		return fmt.Errorf("decode key points: %w", err)
	}
	if err := json.Unmarshal([]byte(ents), &s.Entities); err != nil {
		return fmt.Errorf("decode entities: %w", err)
	}
	if err := json.Unmarshal([]byte(timeline), &s.Timeline); err != nil {
		return fmt.Errorf("decode timeline: %w", err)
	}
	return nil
}
