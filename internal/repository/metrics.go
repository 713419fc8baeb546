package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Metric names recorded by the pipeline.
const (
	MetricProcessingMS = "processing_ms"
	MetricTextWords    = "text_words"
)

type MetricsRepository interface {
	Record(ctx context.Context, name string, value float64, at time.Time) error
	Average(ctx context.Context, name string) (avg float64, samples int, err error)
}

const analyticsTable = "analytics"

type metricsRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewMetricsRepository(db *DB, logger *slog.Logger) MetricsRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &metricsRepo{db: db, logger: logger}
}

func (r *metricsRepo) Record(ctx context.Context, name string, value float64, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	ins := r.db.builder().Insert(analyticsTable).
		Columns("metric_name", "metric_value", "recorded_at").
		Values(name, value, formatTime(at))
	if _, err := r.db.exec(ctx, ins); err != nil {
		r.logger.Error("failed to record metric", "metric", name, "error", err)
		return fmt.Errorf("record metric: %w", err)
	}
	return nil
}

func (r *metricsRepo) Average(ctx context.Context, name string) (float64, int, error) {
	b := r.db.builder()
	sel := b.Select(entsql.Avg("metric_value"), entsql.Count("*")).
		From(b.Table(analyticsTable)).
		Where(entsql.EQ("metric_name", name))
	var avg sql.NullFloat64
	var n int
	if err := r.db.queryRow(ctx, sel).Scan(&avg, &n); err != nil {
		r.logger.Error("failed to average metric", "metric", name, "error", err)
		return 0, 0, fmt.Errorf("average metric: %w", err)
	}
	return avg.Float64, n, nil
}
