package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

func newIngestor(t *testing.T) (*FSIngestor, repository.CaseRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.OpenSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	cases := repository.NewCaseRepository(db, logger)
	return NewFSIngestor(cases, filepath.Join(t.TempDir(), "uploads"), logger), cases
}

func TestIngestUpload_CreatesPendingCase(t *testing.T) {
	ctx := context.Background()
	ing, cases := newIngestor(t)

	res, err := ing.IngestUpload(ctx, "../Saket FIR.txt", strings.NewReader("FIR No. 245/2024"))
	require.NoError(t, err)
	assert.False(t, res.Deduplicated)
	assert.Equal(t, "Saket_FIR.txt", res.FileName)
	assert.Equal(t, constants.FileTypeText, res.FileType)
	assert.Equal(t, constants.CaseStatusPending, res.Status)
	assert.Regexp(t, `^CASE-\d{4}-[0-9a-f]{8}$`, res.CaseID)
	assert.Equal(t, filepath.Join(ing.UploadDir, res.CaseID+"_Saket_FIR.txt"), res.StoredPath)

	b, err := os.ReadFile(res.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, "FIR No. 245/2024", string(b))

	c, err := cases.GetByID(ctx, res.CaseID)
	require.NoError(t, err)
	assert.Equal(t, int64(16), c.FileSize)
	assert.Equal(t, res.HashHex, c.ContentHash)

	// no temp files left behind
	entries, err := os.ReadDir(ing.UploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIngestUpload_DeduplicatesByContent(t *testing.T) {
	ctx := context.Background()
	ing, _ := newIngestor(t)

	first, err := ing.IngestUpload(ctx, "a.txt", strings.NewReader("same bytes"))
	require.NoError(t, err)
	second, err := ing.IngestUpload(ctx, "b.txt", strings.NewReader("same bytes"))
	require.NoError(t, err)

	assert.True(t, second.Deduplicated)
	assert.Equal(t, first.CaseID, second.CaseID)
	assert.Equal(t, "a.txt", second.FileName)

	entries, err := os.ReadDir(ing.UploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIngestUpload_Rejections(t *testing.T) {
	ctx := context.Background()
	ing, _ := newIngestor(t)
	ing.MaxFileSize = 8

	_, err := ing.IngestUpload(ctx, "run.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, common.ErrUnsupported)

	_, err = ing.IngestUpload(ctx, "empty.txt", strings.NewReader(""))
	assert.ErrorIs(t, err, common.ErrEmptyFile)

	_, err = ing.IngestUpload(ctx, "big.txt", strings.NewReader("123456789"))
	assert.ErrorIs(t, err, common.ErrTooLarge)

	_, err = ing.IngestUpload(ctx, "///", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	entries, err := os.ReadDir(ing.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIngestDirectory(t *testing.T) {
	ctx := context.Background()
	ing, _ := newIngestor(t)

	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("one.txt", "report one")
	write("nested/two.TXT", "report two")
	write("nested/copy.txt", "report one")
	write("notes.md", "ignored")
	write(".hidden/three.txt", "hidden")
	write("empty.txt", "")

	results, stats, err := ing.IngestDirectory(ctx, root, true)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(1), stats.Failed)

	_, _, err = ing.IngestDirectory(ctx, " ", true)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":            "report.pdf",
		"../../etc/passwd":      "passwd",
		`C:\scans\FIR 12.jpg`:   "FIR_12.jpg",
		"  statement (1).mp3  ": "statement_1_.mp3",
		"":                      "",
		"..":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestNewCaseID(t *testing.T) {
	id := NewCaseID(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^CASE-2024-[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewCaseID(time.Now()))
}

func TestStartWatcher_EmitsSupportedFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "existing.txt"), []byte("x"), 0o644))

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	next := func() string {
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}
	assert.Equal(t, filepath.Join(root, "existing.txt"), next())

	require.NoError(t, os.WriteFile(filepath.Join(root, "ignored.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.png"), []byte("png"), 0o644))
	assert.Equal(t, filepath.Join(root, "new.png"), next())

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
