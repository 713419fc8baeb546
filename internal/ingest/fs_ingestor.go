package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

// FSIngestor copies files into the upload directory and creates PENDING cases.
type FSIngestor struct {
	CasesRepo   repository.CaseRepository
	UploadDir   string
	MaxFileSize int64
	Logger      *slog.Logger
	now         func() time.Time
}

var _ Ingestor = (*FSIngestor)(nil)

func NewFSIngestor(cases repository.CaseRepository, uploadDir string, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{
		CasesRepo:   cases,
		UploadDir:   uploadDir,
		MaxFileSize: constants.MaxFileSize,
		Logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (i *FSIngestor) IngestUpload(ctx context.Context, filename string, r io.Reader) (IngestionResult, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return IngestionResult{}, fmt.Errorf("filename %q: %w", filename, common.ErrInvalidInput)
	}
	ext := constants.NormalizeExt(filepath.Ext(name))
	ft, ok := constants.ClassifyExt(ext)
	if !ok {
		i.Logger.Warn("rejected upload with unsupported extension", "file_name", name, "ext", ext)
		return IngestionResult{FileName: name}, fmt.Errorf("extension %q: %w", ext, common.ErrUnsupported)
	}

	if err := os.MkdirAll(i.UploadDir, 0o755); err != nil {
		return IngestionResult{}, fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(i.UploadDir, ".upload-*")
	if err != nil {
		return IngestionResult{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpPath)
		}
	}()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), io.LimitReader(r, i.MaxFileSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return IngestionResult{}, fmt.Errorf("store upload: %w", err)
	}
	switch {
	case n == 0:
		return IngestionResult{FileName: name}, fmt.Errorf("%s: %w", name, common.ErrEmptyFile)
	case n > i.MaxFileSize:
		return IngestionResult{FileName: name}, fmt.Errorf("%s exceeds %d bytes: %w", name, i.MaxFileSize, common.ErrTooLarge)
	}
	hashHex := hex.EncodeToString(h.Sum(nil))

	if existing, err := i.CasesRepo.GetByHash(ctx, hashHex); err == nil {
		i.Logger.Info("duplicate upload", "file_name", name, "case_id", existing.ID)
		return resultFor(existing, true), nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return IngestionResult{}, err
	}

	now := i.now()
	caseID := NewCaseID(now)
	stored := filepath.Join(i.UploadDir, caseID+"_"+name)
	if err := os.Rename(tmpPath, stored); err != nil {
		return IngestionResult{}, fmt.Errorf("move upload: %w", err)
	}
	keep = true

	c := &entity.Case{
		ID:          caseID,
		FileName:    name,
		FileType:    ft,
		FilePath:    stored,
		FileSize:    n,
		ContentHash: hashHex,
		Status:      constants.CaseStatusPending,
		UploadedAt:  now,
	}
	if err := i.CasesRepo.Create(ctx, c); err != nil {
		_ = os.Remove(stored)
		// a concurrent upload of the same bytes won the unique hash index
		if existing, gerr := i.CasesRepo.GetByHash(ctx, hashHex); gerr == nil {
			return resultFor(existing, true), nil
		}
		return IngestionResult{}, err
	}
	i.Logger.Info("case created", "case_id", caseID, "file_name", name, "file_type", ft, "size", n)
	return resultFor(c, false), nil
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return IngestionResult{SourcePath: path}, fmt.Errorf("abs path: %w", err)
	}
	if !AllowedExt(filepath.Ext(abs)) {
		return IngestionResult{SourcePath: abs}, fmt.Errorf("%s: %w", filepath.Base(abs), common.ErrUnsupported)
	}

	f, err := os.Open(abs)
	if err != nil {
		return IngestionResult{SourcePath: abs}, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			i.Logger.Warn("close file error", "path", abs, "error", err)
		}
	}()

	out, err := i.IngestUpload(ctx, filepath.Base(abs), f)
	out.SourcePath = abs
	return out, err
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each supported file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("root path is required: %w", common.ErrInvalidInput)
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			r.Err = err.Error()
			results = append(results, r)
			stats.Failed++
			return nil
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.Logger.Info("directory ingested", "root", root,
		"scanned", stats.Scanned, "matched", stats.Matched, "succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return results, stats, nil
}

func resultFor(c *entity.Case, dedup bool) IngestionResult {
	return IngestionResult{
		CaseID:       c.ID,
		FileName:     c.FileName,
		FileType:     c.FileType,
		StoredPath:   c.FilePath,
		Size:         c.FileSize,
		Deduplicated: dedup,
		HashHex:      c.ContentHash,
		Status:       c.Status,
		UploadedAt:   c.UploadedAt,
	}
}
