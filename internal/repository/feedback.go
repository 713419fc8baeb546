package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/case-summarizer/internal/entity"
)

type FeedbackRepository interface {
	Add(ctx context.Context, f *entity.Feedback) error
	ListByCase(ctx context.Context, caseID string) ([]entity.Feedback, error)
	Stats(ctx context.Context) (count int, avgRating float64, err error)
}

const feedbackTable = "feedback"

type feedbackRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewFeedbackRepository(db *DB, logger *slog.Logger) FeedbackRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedbackRepo{db: db, logger: logger}
}

// Add stores f and fills in its ID and timestamp.
func (r *feedbackRepo) Add(ctx context.Context, f *entity.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	ins := r.db.builder().Insert(feedbackTable).
		Columns("case_id", "rating", "comments", "created_at").
		Values(f.CaseID, f.Rating, f.Comments, formatTime(f.CreatedAt))
	if err := r.insertReturningID(ctx, ins, &f.ID); err != nil {
		r.logger.Error("failed to add feedback", "case_id", f.CaseID, "error", err)
		return fmt.Errorf("add feedback: %w", err)
	}
	return nil
}

// insertReturningID uses RETURNING on Postgres and the driver's last insert id elsewhere.
func (r *feedbackRepo) insertReturningID(ctx context.Context, ins *entsql.InsertBuilder, id *int64) error {
	if r.db.Dialect() == dialect.Postgres {
		return r.db.queryRow(ctx, ins.Returning("id")).Scan(id)
	}
	res, err := r.db.exec(ctx, ins)
	if err != nil {
		return err
	}
	*id, err = res.LastInsertId()
	return err
}

func (r *feedbackRepo) ListByCase(ctx context.Context, caseID string) ([]entity.Feedback, error) {
	b := r.db.builder()
	sel := b.Select("id", "case_id", "rating", "comments", "created_at").
		From(b.Table(feedbackTable)).
		Where(entsql.EQ("case_id", caseID)).
		OrderBy("id")
	rows, err := r.db.query(ctx, sel)
	if err != nil {
		r.logger.Error("failed to list feedback", "case_id", caseID, "error", err)
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	out := []entity.Feedback{}
	for rows.Next() {
		var f entity.Feedback
		var createdAt string
		if err := rows.Scan(&f.ID, &f.CaseID, &f.Rating, &f.Comments, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		if f.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("created_at: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *feedbackRepo) Stats(ctx context.Context) (int, float64, error) {
	b := r.db.builder()
	sel := b.Select(entsql.Count("*"), entsql.Avg("rating")).From(b.Table(feedbackTable))
	var n int
	var avg sql.NullFloat64
	if err := r.db.queryRow(ctx, sel).Scan(&n, &avg); err != nil {
		r.logger.Error("failed to read feedback stats", "error", err)
		return 0, 0, fmt.Errorf("feedback stats: %w", err)
	}
	return n, avg.Float64, nil
}
