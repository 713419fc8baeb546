// Package app wires configuration into the repositories, extractors and
// services shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/case-summarizer/internal/async"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/core/textextract"
	"github.com/joseph-ayodele/case-summarizer/internal/export"
	"github.com/joseph-ayodele/case-summarizer/internal/ingest"
	"github.com/joseph-ayodele/case-summarizer/internal/pipeline"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
	"github.com/joseph-ayodele/case-summarizer/internal/server"
)

// App holds the long-lived components built from a Config.
type App struct {
	DB        *repository.DB
	Cases     repository.CaseRepository
	Summaries repository.SummaryRepository
	Feedback  repository.FeedbackRepository
	Metrics   repository.MetricsRepository

	FIR       *fir.Extractor
	Text      *textextract.Extractor
	Processor *pipeline.Processor
	Ingestor  *ingest.FSIngestor
	Exporter  *export.Service
}

// DBConfig maps the database section of cfg to repository.Config.
func DBConfig(cfg *common.Config) repository.Config {
	return repository.Config{
		Driver:           cfg.Database.Driver,
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}
}

// NewFIRExtractor builds the report extractor, loading the locality
// gazetteer when one is configured.
func NewFIRExtractor(cfg *common.Config, logger *slog.Logger) (*fir.Extractor, error) {
	if cfg.Extract.GazetteerFile == "" {
		return fir.New(), nil
	}
	g, err := fir.LoadGazetteer(cfg.Extract.GazetteerFile)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: %w", err)
	}
	logger.Info("gazetteer loaded", "path", cfg.Extract.GazetteerFile, "localities", len(g.Localities))
	return fir.New(g.Option()), nil
}

// Open connects and migrates the database, then builds every component.
func Open(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.Open(ctx, DBConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a, err := Build(db, cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Build assembles components on an already migrated database.
func Build(db *repository.DB, cfg *common.Config, logger *slog.Logger) (*App, error) {
	x, err := NewFIRExtractor(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{
		DB:        db,
		Cases:     repository.NewCaseRepository(db, logger),
		Summaries: repository.NewSummaryRepository(db, logger),
		Feedback:  repository.NewFeedbackRepository(db, logger),
		Metrics:   repository.NewMetricsRepository(db, logger),
		FIR:       x,
		Text: textextract.NewExtractor(textextract.Config{
			Pdftotext:     cfg.Extract.Pdftotext,
			Pdftoppm:      cfg.Extract.Pdftoppm,
			Tesseract:     cfg.Extract.Tesseract,
			TesseractLang: cfg.Extract.TesseractLang,
			TessdataDir:   cfg.Extract.TessdataDir,
			Whisper:       cfg.Extract.Whisper,
			WhisperModel:  cfg.Extract.WhisperModel,
		}, logger),
	}
	a.Processor = pipeline.NewProcessor(logger,
		pipeline.NewTextStage(a.Cases, a.Text, logger),
		pipeline.NewSummaryStage(a.Summaries, a.Cases, a.FIR, logger),
		a.Cases, a.Metrics)
	a.Ingestor = ingest.NewFSIngestor(a.Cases, cfg.Storage.UploadDir, logger)
	a.Exporter = export.NewService(a.Cases, a.Summaries, logger)
	return a, nil
}

// ServerDeps returns the handler dependencies; uploads are processed through q.
func (a *App) ServerDeps(q async.Queue) server.Deps {
	return server.Deps{
		Cases:     a.Cases,
		Summaries: a.Summaries,
		Feedback:  a.Feedback,
		Metrics:   a.Metrics,
		Ingestor:  a.Ingestor,
		Queue:     q,
		Exporter:  a.Exporter,
		Extractor: a.FIR,
	}
}

func (a *App) Close() {
	a.DB.Close()
}
