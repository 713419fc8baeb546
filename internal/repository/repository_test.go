package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := OpenSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func newCase(id, hash string, uploaded time.Time) *entity.Case {
	return &entity.Case{
		ID:          id,
		FileName:    id + ".txt",
		FileType:    constants.FileTypeText,
		FilePath:    "/tmp/" + id + ".txt",
		FileSize:    42,
		ContentHash: hash,
		UploadedAt:  uploaded,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
	require.NoError(t, db.HealthCheck(context.Background(), time.Second))
}

func TestCaseRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewCaseRepository(newTestDB(t), nil)
	t0 := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newCase("CASE-2024-00000001", "h1", t0)))
	require.NoError(t, repo.Create(ctx, newCase("CASE-2024-00000002", "h2", t0.Add(time.Minute))))

	got, err := repo.GetByID(ctx, "CASE-2024-00000001")
	require.NoError(t, err)
	assert.Equal(t, constants.CaseStatusPending, got.Status)
	assert.Equal(t, t0, got.UploadedAt)
	assert.Nil(t, got.ProcessedAt)
	assert.Equal(t, int64(42), got.FileSize)

	byHash, err := repo.GetByHash(ctx, "h2")
	require.NoError(t, err)
	assert.Equal(t, "CASE-2024-00000002", byHash.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CASE-2024-00000002", list[0].ID)

	require.NoError(t, repo.MarkProcessing(ctx, "CASE-2024-00000001"))
	require.NoError(t, repo.SaveText(ctx, "CASE-2024-00000001", "FIR No. 1", entity.TextStats{Language: "en", WordCount: 3, ReadingMinutes: 1}))
	done := t0.Add(time.Hour)
	require.NoError(t, repo.MarkCompleted(ctx, "CASE-2024-00000001", done))
	require.NoError(t, repo.MarkFailed(ctx, "CASE-2024-00000002", "ocr failed", done))

	got, err = repo.GetByID(ctx, "CASE-2024-00000001")
	require.NoError(t, err)
	assert.Equal(t, constants.CaseStatusCompleted, got.Status)
	assert.Equal(t, "FIR No. 1", got.RawText)
	assert.Equal(t, 3, got.WordCount)
	require.NotNil(t, got.ProcessedAt)
	assert.Equal(t, done, *got.ProcessedAt)

	failed, err := repo.GetByID(ctx, "CASE-2024-00000002")
	require.NoError(t, err)
	assert.Equal(t, "ocr failed", failed.Error)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"PENDING": 0, "PROCESSING": 0, "COMPLETED": 1, "FAILED": 1}, counts)

	pending, err := repo.ListByStatus(ctx, constants.CaseStatusFailed)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "CASE-2024-00000002", pending[0].ID)
}

func TestCaseRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewCaseRepository(newTestDB(t), nil)

	_, err := repo.GetByID(ctx, "CASE-2024-ffffffff")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = repo.MarkProcessing(ctx, "CASE-2024-ffffffff")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCaseRepository_DuplicateHash(t *testing.T) {
	ctx := context.Background()
	repo := NewCaseRepository(newTestDB(t), nil)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, newCase("CASE-2024-00000001", "same", now)))
	assert.Error(t, repo.Create(ctx, newCase("CASE-2024-00000002", "same", now)))
}

func TestSummaryRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cases := NewCaseRepository(db, nil)
	summaries := NewSummaryRepository(db, nil)
	require.NoError(t, cases.Create(ctx, newCase("CASE-2024-00000001", "h", time.Now())))

	_, err := summaries.Get(ctx, "CASE-2024-00000001")
	assert.ErrorIs(t, err, common.ErrNotFound)

	first := fir.Extract("Police Station: Saket, Date: 01/02/2024")
	require.NoError(t, summaries.Save(ctx, &entity.CaseSummary{CaseID: "CASE-2024-00000001", Summary: first, ProcessingMS: 5}))

	second := fir.Extract("Police Station: Hauz Khas, Time: 10:30 and IPC Section 379")
	require.NoError(t, summaries.Save(ctx, &entity.CaseSummary{CaseID: "CASE-2024-00000001", Summary: second, ProcessingMS: 7}))

	got, err := summaries.Get(ctx, "CASE-2024-00000001")
	require.NoError(t, err)
	assert.Equal(t, second, got.Summary)
	assert.Equal(t, int64(7), got.ProcessingMS)
}

func TestFeedbackRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, NewCaseRepository(db, nil).Create(ctx, newCase("CASE-2024-00000001", "h", time.Now())))
	repo := NewFeedbackRepository(db, nil)

	n, avg, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, avg)

	a := &entity.Feedback{CaseID: "CASE-2024-00000001", Rating: 4, Comments: "accurate"}
	b := &entity.Feedback{CaseID: "CASE-2024-00000001", Rating: 2}
	require.NoError(t, repo.Add(ctx, a))
	require.NoError(t, repo.Add(ctx, b))
	assert.NotZero(t, a.ID)
	assert.Greater(t, b.ID, a.ID)

	list, err := repo.ListByCase(ctx, "CASE-2024-00000001")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "accurate", list[0].Comments)

	n, avg, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 3.0, avg, 0.001)
}

func TestMetricsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(newTestDB(t), nil)

	avg, n, err := repo.Average(ctx, MetricProcessingMS)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, n)

	require.NoError(t, repo.Record(ctx, MetricProcessingMS, 100, time.Time{}))
	require.NoError(t, repo.Record(ctx, MetricProcessingMS, 300, time.Now()))
	require.NoError(t, repo.Record(ctx, MetricTextWords, 9, time.Now()))

	avg, n, err = repo.Average(ctx, MetricProcessingMS)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 200.0, avg, 0.001)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"}, nil)
	assert.Error(t, err)
}
