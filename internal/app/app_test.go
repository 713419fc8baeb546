package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
)

func testConfig(t *testing.T) *common.Config {
	cfg := common.LoadConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"
	cfg.Storage.UploadDir = filepath.Join(t.TempDir(), "uploads")
	return cfg
}

func TestOpen_ProcessesPlainTextUpload(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	gaz := filepath.Join(t.TempDir(), "localities.yaml")
	require.NoError(t, os.WriteFile(gaz, []byte("localities:\n  - Malviya Nagar\n"), 0o644))
	cfg.Extract.GazetteerFile = gaz

	a, err := Open(ctx, cfg, logger)
	require.NoError(t, err)
	defer a.Close()

	src := filepath.Join(t.TempDir(), "fir.txt")
	require.NoError(t, os.WriteFile(src, []byte("Police Station: Saket\nFIR No.: 12/2024\nThe theft happened near Malviya Nagar market"), 0o644))
	res, err := a.Ingestor.IngestPath(ctx, src)
	require.NoError(t, err)

	out, err := a.Processor.ProcessCase(ctx, res.CaseID)
	require.NoError(t, err)
	assert.Equal(t, "12/2024", out.Summary.Entities.FIRNumber)

	c, err := a.Cases.GetByID(ctx, res.CaseID)
	require.NoError(t, err)
	assert.Equal(t, constants.CaseStatusCompleted, c.Status)

	deps := a.ServerDeps(nil)
	assert.Same(t, a.FIR, deps.Extractor)
}

func TestNewFIRExtractor_MissingGazetteer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Extract.GazetteerFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewFIRExtractor(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
