package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/core/textextract"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/logging"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

const reportText = `FIRST INFORMATION REPORT
Police Station: Saket
FIR No.: 245/2024
Date: 12/03/2024
Time: 21:15
1. Complainant Details
Name: Rajesh Kumar
2. Accused Details
Name: Mohan Verma
Offence under Section 379 IPC`

type fakeExtractor struct {
	text     string
	warnings []string
	err      error
}

func (f fakeExtractor) Extract(context.Context, string) (textextract.Result, error) {
	if f.err != nil {
		return textextract.Result{Method: "plain"}, f.err
	}
	return textextract.Result{Text: f.text, Pages: 1, Method: "plain", Warnings: f.warnings}, nil
}

type fixture struct {
	cases     repository.CaseRepository
	summaries repository.SummaryRepository
	metrics   repository.MetricsRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.OpenSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return fixture{
		cases:     repository.NewCaseRepository(db, logger),
		summaries: repository.NewSummaryRepository(db, logger),
		metrics:   repository.NewMetricsRepository(db, logger),
	}
}

func (f fixture) processor(tx TextExtractor) *Processor {
	return f.processorWithLogger(tx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (f fixture) processorWithLogger(tx TextExtractor, logger *slog.Logger) *Processor {
	return NewProcessor(logger,
		NewTextStage(f.cases, tx, logger),
		NewSummaryStage(f.summaries, f.cases, fir.New(), logger),
		f.cases, f.metrics)
}

func (f fixture) seed(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.cases.Create(context.Background(), &entity.Case{
		ID:          id,
		FileName:    "fir.txt",
		FileType:    constants.FileTypeText,
		FilePath:    "/uploads/" + id + "_fir.txt",
		FileSize:    int64(len(reportText)),
		ContentHash: id,
		UploadedAt:  time.Now().UTC(),
	}))
}

func TestProcessCase_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "CASE-2024-0000000a")

	out, err := f.processor(fakeExtractor{text: reportText}).ProcessCase(ctx, "CASE-2024-0000000a")
	require.NoError(t, err)
	assert.Equal(t, "245/2024", out.Summary.Entities.FIRNumber)
	assert.Equal(t, "Rajesh Kumar", out.Summary.Entities.Complainant)
	assert.Equal(t, []string{"IPC 379"}, out.Summary.Entities.Sections)

	c, err := f.cases.GetByID(ctx, "CASE-2024-0000000a")
	require.NoError(t, err)
	assert.Equal(t, constants.CaseStatusCompleted, c.Status)
	assert.NotNil(t, c.ProcessedAt)
	assert.Equal(t, reportText, c.RawText)
	assert.Equal(t, "en", c.Language)
	assert.Positive(t, c.WordCount)

	stored, err := f.summaries.Get(ctx, "CASE-2024-0000000a")
	require.NoError(t, err)
	assert.Equal(t, out.Summary, stored.Summary)

	_, samples, err := f.metrics.Average(ctx, repository.MetricProcessingMS)
	require.NoError(t, err)
	assert.Equal(t, 1, samples)
}

func TestProcessCase_EmptyTextStillCompletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "CASE-2024-0000000b")

	out, err := f.processor(fakeExtractor{text: ""}).ProcessCase(ctx, "CASE-2024-0000000b")
	require.NoError(t, err)
	assert.Equal(t, fir.EmptySummary(), out.Summary)

	c, err := f.cases.GetByID(ctx, "CASE-2024-0000000b")
	require.NoError(t, err)
	assert.Equal(t, constants.CaseStatusCompleted, c.Status)
}

func TestProcessCase_ExtractionFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "CASE-2024-0000000c")

	_, err := f.processor(fakeExtractor{err: errors.New("tesseract: exit status 1")}).ProcessCase(ctx, "CASE-2024-0000000c")
	require.Error(t, err)

	c, err := f.cases.GetByID(ctx, "CASE-2024-0000000c")
	require.NoError(t, err)
	assert.Equal(t, constants.CaseStatusFailed, c.Status)
	assert.Contains(t, c.Error, "tesseract")

	_, err = f.summaries.Get(ctx, "CASE-2024-0000000c")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProcessCase_UnknownCase(t *testing.T) {
	f := newFixture(t)
	_, err := f.processor(fakeExtractor{text: reportText}).ProcessCase(context.Background(), "CASE-2024-ffffffff")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProcessCase_StageLogsCarryContextAttrs(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "CASE-2024-0000000d")

	var buf bytes.Buffer
	logger := logging.New(&buf, "debug", false)
	ctx := logging.WithAttrs(context.Background(), slog.String("request_id", "req-42"))

	tx := fakeExtractor{text: "", warnings: []string{"page 2 was blank"}}
	_, err := f.processorWithLogger(tx, logger).ProcessCase(ctx, "CASE-2024-0000000d")
	require.NoError(t, err)

	for _, msg := range []string{"text extraction warning", "case text stored", "no report fields recognised", "case summarised"} {
		line := logLine(buf.String(), msg)
		require.NotEmpty(t, line, msg)
		assert.Contains(t, line, "request_id=req-42", msg)
		assert.Contains(t, line, "case_id=CASE-2024-0000000d", msg)
	}
}

func logLine(out, msg string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, `msg="`+msg+`"`) {
			return line
		}
	}
	return ""
}
