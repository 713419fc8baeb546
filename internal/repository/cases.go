package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
)

type CaseRepository interface {
	Create(ctx context.Context, c *entity.Case) error
	GetByID(ctx context.Context, id string) (*entity.Case, error)
	GetByHash(ctx context.Context, hash string) (*entity.Case, error)
	List(ctx context.Context) ([]entity.Case, error)
	ListByStatus(ctx context.Context, statuses ...constants.CaseStatus) ([]entity.Case, error)
	MarkProcessing(ctx context.Context, id string) error
	SaveText(ctx context.Context, id, text string, stats entity.TextStats) error
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id, reason string, at time.Time) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

const casesTable = "cases"

var caseColumns = []string{
	"case_id", "file_name", "file_type", "file_path", "file_size", "content_hash", "status",
	"error", "uploaded_at", "processed_at", "raw_text", "language", "word_count", "reading_minutes",
}

type caseRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewCaseRepository(db *DB, logger *slog.Logger) CaseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &caseRepo{db: db, logger: logger}
}

func (r *caseRepo) Create(ctx context.Context, c *entity.Case) error {
	if c.Status == "" {
		c.Status = constants.CaseStatusPending
	}
	if c.UploadedAt.IsZero() {
		c.UploadedAt = time.Now().UTC()
	}
	ins := r.db.builder().Insert(casesTable).
		Columns(caseColumns...).
		Values(c.ID, c.FileName, string(c.FileType), c.FilePath, c.FileSize, c.ContentHash, string(c.Status),
			c.Error, formatTime(c.UploadedAt), nullTime(c.ProcessedAt), c.RawText, c.Language, c.WordCount, c.ReadingMinutes)
	if _, err := r.db.exec(ctx, ins); err != nil {
		r.logger.Error("failed to create case", "case_id", c.ID, "file_name", c.FileName, "error", err)
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

func (r *caseRepo) GetByID(ctx context.Context, id string) (*entity.Case, error) {
	return r.getOne(ctx, entsql.EQ("case_id", id), "case_id", id)
}

func (r *caseRepo) GetByHash(ctx context.Context, hash string) (*entity.Case, error) {
	return r.getOne(ctx, entsql.EQ("content_hash", hash), "content_hash", hash)
}

func (r *caseRepo) getOne(ctx context.Context, p *entsql.Predicate, key, value string) (*entity.Case, error) {
	b := r.db.builder()
	sel := b.Select(caseColumns...).From(b.Table(casesTable)).Where(p).Limit(1)
	c, err := scanCase(r.db.queryRow(ctx, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("case %s=%s: %w", key, value, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get case", key, value, "error", err)
		return nil, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

// List returns every case, newest upload first.
func (r *caseRepo) List(ctx context.Context) ([]entity.Case, error) {
	b := r.db.builder()
	sel := b.Select(caseColumns...).From(b.Table(casesTable)).OrderBy(entsql.Desc("uploaded_at"), "case_id")
	return r.list(ctx, sel)
}

// ListByStatus returns cases in any of statuses, oldest upload first.
func (r *caseRepo) ListByStatus(ctx context.Context, statuses ...constants.CaseStatus) ([]entity.Case, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = string(s)
	}
	b := r.db.builder()
	sel := b.Select(caseColumns...).From(b.Table(casesTable)).
		Where(entsql.In("status", args...)).
		OrderBy("uploaded_at", "case_id")
	return r.list(ctx, sel)
}

func (r *caseRepo) list(ctx context.Context, sel *entsql.Selector) ([]entity.Case, error) {
	rows, err := r.db.query(ctx, sel)
	if err != nil {
		r.logger.Error("failed to list cases", "error", err)
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	out := []entity.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *caseRepo) MarkProcessing(ctx context.Context, id string) error {
	upd := r.db.builder().Update(casesTable).
		Set("status", string(constants.CaseStatusProcessing)).
		Set("error", "").
		Where(entsql.EQ("case_id", id))
	return r.update(ctx, id, "mark processing", upd)
}

func (r *caseRepo) SaveText(ctx context.Context, id, text string, stats entity.TextStats) error {
	upd := r.db.builder().Update(casesTable).
		Set("raw_text", text).
		Set("language", stats.Language).
		Set("word_count", stats.WordCount).
		Set("reading_minutes", stats.ReadingMinutes).
		Where(entsql.EQ("case_id", id))
	return r.update(ctx, id, "save text", upd)
}

func (r *caseRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	upd := r.db.builder().Update(casesTable).
		Set("status", string(constants.CaseStatusCompleted)).
		Set("error", "").
		Set("processed_at", formatTime(at)).
		Where(entsql.EQ("case_id", id))
	return r.update(ctx, id, "mark completed", upd)
}

func (r *caseRepo) MarkFailed(ctx context.Context, id, reason string, at time.Time) error {
	upd := r.db.builder().Update(casesTable).
		Set("status", string(constants.CaseStatusFailed)).
		Set("error", reason).
		Set("processed_at", formatTime(at)).
		Where(entsql.EQ("case_id", id))
	return r.update(ctx, id, "mark failed", upd)
}

func (r *caseRepo) update(ctx context.Context, id, op string, upd *entsql.UpdateBuilder) error {
	res, err := r.db.exec(ctx, upd)
	if err != nil {
		r.logger.Error("failed to update case", "case_id", id, "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: case %s: %w", op, id, common.ErrNotFound)
	}
	return nil
}

func (r *caseRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	b := r.db.builder()
	sel := b.Select("status", entsql.As(entsql.Count("*"), "n")).
		From(b.Table(casesTable)).
		GroupBy("status")
	rows, err := r.db.query(ctx, sel)
	if err != nil {
		r.logger.Error("failed to count cases", "error", err)
		return nil, fmt.Errorf("count cases: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, len(constants.CaseStatuses))
	for _, s := range constants.CaseStatuses {
		out[string(s)] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(s scanner) (*entity.Case, error) {
	var (
		c          entity.Case
		fileType   string
		status     string
		uploadedAt string
		processed  sql.NullString
	)
	err := s.Scan(&c.ID, &c.FileName, &fileType, &c.FilePath, &c.FileSize, &c.ContentHash, &status,
		&c.Error, &uploadedAt, &processed, &c.RawText, &c.Language, &c.WordCount, &c.ReadingMinutes)
	if err != nil {
		return nil, err
	}
	c.FileType = constants.FileType(fileType)
	c.Status = constants.CaseStatus(status)
	if c.UploadedAt, err = parseTime(uploadedAt); err != nil {
		return nil, fmt.Errorf("uploaded_at: %w", err)
	}
	if processed.Valid && processed.String != "" {
		t, err := parseTime(processed.String)
		if err != nil {
			return nil, fmt.Errorf("processed_at: %w", err)
		}
		c.ProcessedAt = &t
	}
	return &c, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
